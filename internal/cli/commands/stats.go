package commands

import (
	"GlucoTrack/internal/cli/api"
	"GlucoTrack/internal/config"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type statsCmd struct{}

func (statsCmd) Name() string        { return "stats" }
func (statsCmd) Description() string { return "Show account summary and weekly trend" }
func (statsCmd) Usage() string       { return "stats" }

func (statsCmd) Run(_ context.Context, cfg *config.Config, _ []string) error {
	token, err := api.LoadToken(cfg.TokenFile)
	if err != nil {
		return errors.New("not logged in, run: gtcli login <email> <password>")
	}

	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/users/stats"
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

	var stats struct {
		TotalGlucoseRecords int64  `json:"totalGlucoseRecords"`
		TotalInsulinRecords int64  `json:"totalInsulinRecords"`
		RecentGlucoseAvg    int    `json:"recentGlucoseAvg"`
		Trend               string `json:"trend"`
		UnreadAlerts        int64  `json:"unreadAlerts"`
	}
	if err := json.Unmarshal(body, &stats); err != nil {
		return fmt.Errorf("invalid server response: %w", err)
	}

	fmt.Fprintf(Out, "Glucose records: %d\n", stats.TotalGlucoseRecords)
	fmt.Fprintf(Out, "Insulin records: %d\n", stats.TotalInsulinRecords)
	fmt.Fprintf(Out, "7-day average:   %d mg/dL (%s)\n", stats.RecentGlucoseAvg, stats.Trend)
	fmt.Fprintf(Out, "Unread alerts:   %d\n", stats.UnreadAlerts)
	return nil
}

func init() { RegisterCmd(statsCmd{}) }
