package ctl

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/mastermind-creat/techsafi/domain/content"
)

// apiError is the server's error envelope.
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (a *app) client() (*resty.Client, error) {
	server := strings.TrimRight(a.v.GetString("server"), "/")
	if server == "" {
		return nil, fmt.Errorf("server URL is required: use --server or CONTENTCTL_SERVER")
	}
	c := resty.New().
		SetBaseURL(server).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json").
		SetError(&apiError{})
	if key := a.v.GetString("api-key"); key != "" {
		c.SetHeader("X-API-Key", key)
	}
	return c, nil
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}
	if e, ok := resp.Error().(*apiError); ok && e.Error.Message != "" {
		return fmt.Errorf("%s: %s (%s)", resp.Status(), e.Error.Message, e.Error.Code)
	}
	return fmt.Errorf("%s", resp.Status())
}

func (a *app) remoteCmd() *cobra.Command {
	remote := &cobra.Command{
		Use:   "remote",
		Short: "Work with a running server through its admin API",
	}
	remote.AddCommand(a.remoteGetCmd(), a.remotePushCmd(), a.remoteLeadsCmd())
	return remote
}

func (a *app) remoteGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <domain>",
		Short: "Print a domain's live document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			var doc content.Document
			resp, err := c.R().
				SetContext(cmd.Context()).
				SetPathParam("domain", args[0]).
				SetResult(&doc).
				Get("/api/content/{domain}")
			if err := checkResponse(resp, err); err != nil {
				return err
			}
			format := a.output()
			if format == OutputTable {
				format = OutputJSON
			}
			return encode(cmd.OutOrStdout(), format, doc.Data)
		},
	}
}

func (a *app) remotePushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push <domain> <file>",
		Short: "Replace a domain's live document with a YAML or JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			var body json.RawMessage
			if err := decode(data, &body); err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			var doc content.Document
			resp, err := c.R().
				SetContext(cmd.Context()).
				SetPathParam("domain", args[0]).
				SetHeader("Content-Type", "application/json").
				SetBody([]byte(body)).
				SetResult(&doc).
				Put("/api/content/{domain}")
			if err := checkResponse(resp, err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s saved as revision %d\n", doc.Domain, doc.Revision)
			return nil
		},
	}
}

func (a *app) remoteLeadsCmd() *cobra.Command {
	var status, priority, query string

	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List contact form submissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			var result struct {
				Submissions []content.ContactSubmission `json:"submissions"`
				Total       int                         `json:"total"`
			}
			resp, err := c.R().
				SetContext(cmd.Context()).
				SetQueryParams(map[string]string{"status": status, "priority": priority, "q": query}).
				SetResult(&result).
				Get("/api/contact/submissions")
			if err := checkResponse(resp, err); err != nil {
				return err
			}
			if a.output() != OutputTable {
				return encode(cmd.OutOrStdout(), a.output(), result.Submissions)
			}
			rows := make([][]string, 0, len(result.Submissions))
			for _, s := range result.Submissions {
				rows = append(rows, []string{fmtTime(s.CreatedAt), s.Name, s.Email, s.Service, s.Status, s.Priority})
			}
			if err := renderTable(cmd.OutOrStdout(), []string{"Received", "Name", "Email", "Service", "Status", "Priority"}, rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d submission(s)\n", result.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status (new, contacted, in-progress, closed)")
	cmd.Flags().StringVar(&priority, "priority", "", "filter by priority (low, medium, high)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search name, email, company and message")
	return cmd
}
