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

type insulinAddCmd struct{}

func (insulinAddCmd) Name() string        { return "insulin-add" }
func (insulinAddCmd) Description() string { return "Record an insulin dose" }
func (insulinAddCmd) Usage() string       { return "insulin-add <date> <period> <units> [type]" }

func (insulinAddCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) < 3 {
		return ErrUsage
	}
	units, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid units: %s", args[2])
	}
	payload := map[string]any{
		"date":   args[0],
		"period": args[1],
		"units":  units,
	}
	if len(args) > 3 {
		payload["insulinType"] = args[3]
	}

	token, err := api.LoadToken(cfg.TokenFile)
	if err != nil {
		return errors.New("not logged in, run: gtcli login <email> <password>")
	}

	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/insulin"
	resp, body, err := api.PostJSON(endpoint, payload, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		fmt.Fprintf(Out, "Recorded %.1f units for %s (%s)\n", units, args[0], args[1])
		return nil
	case http.StatusConflict:
		return errors.New("a record for this date and period already exists")
	case http.StatusUnauthorized:
		return errors.New("session expired, login again")
	default:
		return fmt.Errorf("server error: %s", strings.TrimSpace(string(body)))
	}
}

type insulinListCmd struct{}

func (insulinListCmd) Name() string        { return "insulin-list" }
func (insulinListCmd) Description() string { return "List insulin doses with stats" }
func (insulinListCmd) Usage() string       { return "insulin-list [startDate] [endDate]" }

func (insulinListCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	token, err := api.LoadToken(cfg.TokenFile)
	if err != nil {
		return errors.New("not logged in, run: gtcli login <email> <password>")
	}

	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/insulin"
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
			ID          int64   `json:"id"`
			Date        string  `json:"date"`
			Period      string  `json:"period"`
			InsulinType string  `json:"insulinType"`
			Units       float64 `json:"units"`
		} `json:"records"`
		Stats struct {
			Average float64 `json:"average"`
			Total   float64 `json:"total"`
			Count   int     `json:"count"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("invalid server response: %w", err)
	}

	for _, rec := range out.Records {
		fmt.Fprintf(Out, "#%d  %s  %-10s %5.1f units  %s\n", rec.ID, rec.Date, rec.Period, rec.Units, rec.InsulinType)
	}
	fmt.Fprintf(Out, "avg %.1f  total %.1f  (%d records)\n", out.Stats.Average, out.Stats.Total, out.Stats.Count)
	return nil
}

func init() {
	RegisterCmd(insulinAddCmd{})
	RegisterCmd(insulinListCmd{})
}
