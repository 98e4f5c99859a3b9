package hook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kotrzina/calassist/pkg/store"
)

type Discord struct {
	hookURL string
	client  *http.Client
}

func New(hookURL string) *Discord {
	return &Discord{
		hookURL: hookURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *Discord) SendLink(link store.Link) error {
	name := link.EventName
	if name == "" {
		name = "New event"
	}

	message := fmt.Sprintf("📅\t**%s**\n%s", name, link.URL)
	return d.sendWebhook(message)
}

func (d *Discord) sendWebhook(message string) error {
	body := struct {
		Content string `json:"content"`
	}{
		Content: message,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("could not marshal data for Discord webhook")
	}
	data := bytes.NewBuffer(jsonData)

	resp, err := d.client.Post(d.hookURL, "application/json", data)
	if err != nil {
		return fmt.Errorf("could not send Discord webhook: %w", err)
	}
	defer resp.Body.Close() //nolint: errcheck

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("invalid response code from Discord webhook: %d", resp.StatusCode)
	}

	return nil
}
