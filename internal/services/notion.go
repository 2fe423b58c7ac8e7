package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	notionBaseURL = "https://api.notion.com/v1"
	notionVersion = "2022-06-28"
)

// NotionClient queries the Notion database backing the knowledge base.
type NotionClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewNotionClient(apiKey string) *NotionClient {
	return &NotionClient{
		BaseURL:    notionBaseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type KnowledgePage struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	LastEditedTime string `json:"lastEditedTime,omitempty"`
	URL            string `json:"url,omitempty"`
	CoverURL       string `json:"coverUrl,omitempty"`
}

type notionRichText struct {
	PlainText string `json:"plain_text"`
}

type notionQueryResponse struct {
	Results []struct {
		ID             string `json:"id"`
		URL            string `json:"url"`
		LastEditedTime string `json:"last_edited_time"`
		Cover          *struct {
			Type     string `json:"type"`
			External struct {
				URL string `json:"url"`
			} `json:"external"`
			File struct {
				URL string `json:"url"`
			} `json:"file"`
		} `json:"cover"`
		Properties struct {
			Name struct {
				Title []notionRichText `json:"title"`
			} `json:"Name"`
			Description struct {
				RichText []notionRichText `json:"rich_text"`
			} `json:"Description"`
		} `json:"properties"`
	} `json:"results"`
}

// QueryDatabase lists the pages of one Notion database, mapped down to the
// fields the knowledge base displays.
func (c *NotionClient) QueryDatabase(ctx context.Context, databaseID string) ([]KnowledgePage, error) {
	url := fmt.Sprintf("%s/databases/%s/query", c.BaseURL, databaseID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader([]byte("{}")))

	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Notion-Version", notionVersion)

	resp, err := c.HTTPClient.Do(req)

	if err != nil {
		return nil, fmt.Errorf("notion request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("notion API returned status %d: %s", resp.StatusCode, string(body))
	}

	var decoded notionQueryResponse

	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("invalid notion response body: %w", err)
	}

	pages := make([]KnowledgePage, 0, len(decoded.Results))

	for _, result := range decoded.Results {
		page := KnowledgePage{
			ID:             result.ID,
			Title:          "Untitled",
			LastEditedTime: result.LastEditedTime,
			URL:            result.URL,
		}

		if len(result.Properties.Name.Title) > 0 {
			page.Title = result.Properties.Name.Title[0].PlainText
		}

		if len(result.Properties.Description.RichText) > 0 {
			page.Description = result.Properties.Description.RichText[0].PlainText
		}

		if result.Cover != nil {
			switch result.Cover.Type {
			case "external":
				page.CoverURL = result.Cover.External.URL
			case "file":
				page.CoverURL = result.Cover.File.URL
			}
		}

		pages = append(pages, page)
	}

	return pages, nil
}
