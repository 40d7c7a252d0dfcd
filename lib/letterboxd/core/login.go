package core

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// LoginError is returned when the site rejects the credentials.
type LoginError struct {
	Messages []string
}

func (e LoginError) Error() string {
	return fmt.Sprintf("login failed: %s", strings.Join(e.Messages, "; "))
}

var (
	loginResultRegex   = regexp.MustCompile(`"result"\s*:\s*"(\w+)"`)
	loginMessagesRegex = regexp.MustCompile(`"messages"\s*:\s*\[([^\]]+)`)
)

func parseMessages(raw string) []string {
	var messages []string
	err := json.Unmarshal([]byte("["+raw+"]"), &messages)
	if err != nil || len(messages) == 0 {
		return []string{strings.TrimSpace(raw)}
	}
	return messages
}

// loginResult decodes the json reply, scanning the raw body only when it is
// not valid json.
func loginResult(body string) error {
	decoded, err := parseResult([]byte(body))
	if err == nil {
		if decoded.Ok {
			return nil
		}
		if len(decoded.Messages) == 0 {
			return LoginError{Messages: []string{"unknown error"}}
		}
		return LoginError{Messages: decoded.Messages}
	}

	result := loginResultRegex.FindStringSubmatch(body)
	if len(result) >= 2 && result[1] == "success" {
		return nil
	}
	messages := loginMessagesRegex.FindStringSubmatch(body)
	if len(messages) < 2 {
		return LoginError{Messages: []string{"unknown error"}}
	}
	return LoginError{Messages: parseMessages(messages[1])}
}

func (c *Client) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	span.SetAttributes(attribute.String("username", username))

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			CsrfField:  c.csrf,
			"username": username,
			"password": password,
		}).
		Post("/user/login.do")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return err
	}

	err = loginResult(res.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login rejected")
		return err
	}

	if refreshed := c.cookie(CsrfCookie); refreshed != "" {
		c.csrf = refreshed
	}
	c.Username = username
	return nil
}
