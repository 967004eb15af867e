package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/topiclens/topiclens/domain/video"
)

// Wire shapes for the two Data API calls we make. Statistics counts come
// back as decimal strings.

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type videosResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title        string    `json:"title"`
		Description  string    `json:"description"`
		ChannelTitle string    `json:"channelTitle"`
		PublishedAt  time.Time `json:"publishedAt"`
		Thumbnails   struct {
			Medium struct {
				URL string `json:"url"`
			} `json:"medium"`
		} `json:"thumbnails"`
	} `json:"snippet"`
	Statistics struct {
		ViewCount    string `json:"viewCount"`
		LikeCount    string `json:"likeCount"`
		CommentCount string `json:"commentCount"`
	} `json:"statistics"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
}

const descriptionLimit = 200

func (c *Client) searchIDs(ctx context.Context, query, apiKey string, limit int) ([]string, error) {
	if limit > apiPageLimit {
		limit = apiPageLimit
	}
	params := url.Values{
		"part":          {"snippet"},
		"q":             {query},
		"type":          {"video"},
		"order":         {"relevance"},
		"videoDuration": {"medium"},
		"maxResults":    {strconv.Itoa(limit)},
		"key":           {apiKey},
	}

	var out searchResponse
	if err := c.getJSON(ctx, "/search", params, &out); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	ids := make([]string, 0, len(out.Items))
	for _, item := range out.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	return ids, nil
}

func (c *Client) videoDetails(ctx context.Context, ids []string, apiKey string) ([]video.Video, error) {
	params := url.Values{
		"part": {"snippet,statistics,contentDetails"},
		"id":   {strings.Join(ids, ",")},
		"key":  {apiKey},
	}

	var out videosResponse
	if err := c.getJSON(ctx, "/videos", params, &out); err != nil {
		return nil, fmt.Errorf("video details: %w", err)
	}

	videos := make([]video.Video, 0, len(out.Items))
	for _, item := range out.Items {
		desc := item.Snippet.Description
		if r := []rune(desc); len(r) > descriptionLimit {
			desc = string(r[:descriptionLimit]) + "..."
		}
		videos = append(videos, video.Video{
			ID:           item.ID,
			Title:        item.Snippet.Title,
			Description:  desc,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			Duration:     video.ParseDuration(item.ContentDetails.Duration),
			ViewCount:    count(item.Statistics.ViewCount),
			LikeCount:    count(item.Statistics.LikeCount),
			CommentCount: count(item.Statistics.CommentCount),
			URL:          "https://www.youtube.com/watch?v=" + item.ID,
			Thumbnail:    item.Snippet.Thumbnails.Medium.URL,
		})
	}
	return videos, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// count parses the API's string counters, tolerating absent fields.
func count(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
