package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/urfave/cli/v3"
)

// apiClient returns a resty client for the server named by the global flags
func apiClient(cmd *cli.Command) *resty.Client {
	client := resty.New().
		SetBaseURL(cmd.String("server")).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json")

	if token := cmd.String("token"); token != "" {
		client.SetAuthToken(token)
	}
	return client
}

// printResponse writes the body indented, or returns the server's error
func printResponse(cmd *cli.Command, resp *resty.Response) error {
	if resp.IsError() {
		var body struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode(), body.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode())
	}

	var out bytes.Buffer
	if err := json.Indent(&out, resp.Body(), "", "  "); err != nil {
		out.Reset()
		out.Write(resp.Body())
	}
	out.WriteByte('\n')
	_, err := cmd.Root().Writer.Write(out.Bytes())
	return err
}
