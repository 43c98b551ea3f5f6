package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kolah/ramble/internal/config"
	"github.com/kolah/ramble/pipeline"
	"github.com/kolah/ramble/template"
)

func CallCommand() *cobra.Command {
	var (
		method  string
		data    string
		query   string
		headers []string
	)

	cmd := &cobra.Command{
		Use:   "call <path>",
		Short: "Issue a request against a path from the description's base URI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd)
			if err != nil {
				return err
			}

			pipe := pipeline.NewHTTP(&pipeline.HTTPOptions{Timeout: cfg.Timeout})
			c, err := buildClient(cfg, pipe)
			if err != nil {
				return err
			}

			node, err := c.Request(args[0], template.Named(nil))
			if err != nil {
				return err
			}

			merged := mergeHeaders(cfg.Headers, headers)
			if len(merged) > 0 {
				if node, err = node.Headers(merged); err != nil {
					return err
				}
			}
			if query != "" {
				if node, err = node.Query(query); err != nil {
					return err
				}
			}

			body, err := resolveData(data)
			if err != nil {
				return err
			}

			type outcome struct {
				err error
				res *pipeline.Response
			}
			done := make(chan outcome, 1)
			_, err = node.Invoke(method, body, func(err error, res *pipeline.Response) {
				done <- outcome{err: err, res: res}
			})
			if err != nil {
				return err
			}

			result := <-done
			if result.err != nil {
				return fmt.Errorf("request failed: %w", result.err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.res.Status)
			if len(result.res.Body) > 0 {
				out.Write(result.res.Body)
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	config.BindCommonFlags(cmd)
	flags := cmd.Flags()
	flags.StringVarP(&method, "method", "X", "get", "HTTP method")
	flags.StringVarP(&data, "data", "d", "", "Request body (@file reads from a file)")
	flags.StringVarP(&query, "query", "q", "", "Query string to append")
	flags.StringArrayVarP(&headers, "header", "H", nil, "Request header (name: value), repeatable")

	return cmd
}

// resolveData returns the request body: a literal string, or the contents of
// a file when prefixed with @.
func resolveData(data string) (any, error) {
	if data == "" {
		return nil, nil
	}
	if strings.HasPrefix(data, "@") {
		contents, err := os.ReadFile(strings.TrimPrefix(data, "@"))
		if err != nil {
			return nil, fmt.Errorf("reading body file: %w", err)
		}
		return string(contents), nil
	}
	return data, nil
}

func mergeHeaders(base map[string]string, flagValues []string) map[string]string {
	merged := make(map[string]string, len(base)+len(flagValues))
	for name, value := range base {
		merged[name] = value
	}
	for _, entry := range flagValues {
		name, value, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		merged[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return merged
}
