package commands

import (
	"GlucoTrack/internal/cli/api"
	"GlucoTrack/internal/config"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

type glucoseAddCmd struct{}

func (glucoseAddCmd) Name() string        { return "glucose-add" }
func (glucoseAddCmd) Description() string { return "Record a glucose measurement" }
func (glucoseAddCmd) Usage() string       { return "glucose-add <date> <period> <value> [notes]" }

func (glucoseAddCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) < 3 {
		return ErrUsage
	}
	value, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid value: %s", args[2])
	}
	payload := map[string]any{
		"date":   args[0],
		"period": args[1],
		"value":  value,
	}
	if len(args) > 3 {
		payload["notes"] = strings.Join(args[3:], " ")
	}

	token, err := api.LoadToken(cfg.TokenFile)
	if err != nil {
		return errors.New("not logged in, run: gtcli login <email> <password>")
	}

	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/glucose"
	resp, body, err := api.PostJSON(endpoint, payload, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		fmt.Fprintf(Out, "Recorded %d mg/dL for %s (%s)\n", value, args[0], args[1])
		return nil
	case http.StatusConflict:
		return errors.New("a record for this date and period already exists")
	case http.StatusUnauthorized:
		return errors.New("session expired, login again")
	default:
		return fmt.Errorf("server error: %s", strings.TrimSpace(string(body)))
	}
}

type glucoseListCmd struct{}

func (glucoseListCmd) Name() string        { return "glucose-list" }
func (glucoseListCmd) Description() string { return "List glucose measurements with stats" }
func (glucoseListCmd) Usage() string       { return "glucose-list [startDate] [endDate]" }

func (glucoseListCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	token, err := api.LoadToken(cfg.TokenFile)
	if err != nil {
		return errors.New("not logged in, run: gtcli login <email> <password>")
	}

	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/glucose"
	params := []string{}
	if len(args) > 0 {
		params = append(params, "startDate="+args[0])
	}
	if len(args) > 1 {
		params = append(params, "endDate="+args[1])
	}
	if len(params) > 0 {
		endpoint += "?" + strings.Join(params, "&")
	}

	resp, body, err := api.GetJSON(endpoint, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return errors.New("session expired, login again")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server error: %s", strings.TrimSpace(string(body)))
	}

	var out struct {
		Records []struct {
			ID     int64  `json:"id"`
			Date   string `json:"date"`
			Period string `json:"period"`
			Value  int    `json:"value"`
			Notes  string `json:"notes"`
		} `json:"records"`
		Stats struct {
			Average int `json:"average"`
			Minimum int `json:"minimum"`
			Maximum int `json:"maximum"`
			Count   int `json:"count"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("invalid server response: %w", err)
	}

	for _, rec := range out.Records {
		line := fmt.Sprintf("#%d  %s  %-17s %4d mg/dL", rec.ID, rec.Date, rec.Period, rec.Value)
		if rec.Notes != "" {
			line += "  " + rec.Notes
		}
		fmt.Fprintln(Out, line)
	}
	fmt.Fprintf(Out, "avg %d  min %d  max %d  (%d records)\n",
		out.Stats.Average, out.Stats.Minimum, out.Stats.Maximum, out.Stats.Count)
	return nil
}

func init() {
	RegisterCmd(glucoseAddCmd{})
	RegisterCmd(glucoseListCmd{})
}
