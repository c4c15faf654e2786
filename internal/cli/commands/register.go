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

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account and store auth token" }
func (registerCmd) Usage() string       { return "register <name> <email> <password>" }

func (registerCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) < 3 {
		return ErrUsage
	}
	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/auth/register"
	payload := map[string]string{
		"name":     args[0],
		"email":    args[1],
		"password": args[2],
	}
	resp, body, err := api.PostJSON(endpoint, payload, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		if err := persistToken(cfg, body); err != nil {
			return fmt.Errorf("saving auth: %w", err)
		}
		fmt.Fprintln(Out, "Registered successfully")
		return nil
	case http.StatusConflict:
		return errors.New("email already registered")
	default:
		return fmt.Errorf("server error: %s", strings.TrimSpace(string(body)))
	}
}

// persistToken извлекает токен из ответа и сохраняет его в файл.
func persistToken(cfg *config.Config, body []byte) error {
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return err
	}
	if resp.Token == "" {
		return errors.New("no token in response")
	}
	return api.SaveToken(cfg.TokenFile, resp.Token)
}

func init() { RegisterCmd(registerCmd{}) }
