package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const googleBooksBase = "https://www.googleapis.com/books/v1/volumes"

// googleBooksClient has a short timeout so slow responses don't hang the
// lookup endpoint.
var googleBooksClient = &http.Client{Timeout: 15 * time.Second}

type googleBooksVolumesResp struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo struct {
			Title         string   `json:"title"`
			Subtitle      string   `json:"subtitle"`
			Authors       []string `json:"authors"`
			PublishedDate string   `json:"publishedDate"`
			Description   string   `json:"description"`
			Categories    []string `json:"categories"`
			ImageLinks    struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
			AverageRating float64 `json:"averageRating"`
			RatingsCount  int     `json:"ratingsCount"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// BookMetadata is a catalog prefill fetched by ISBN.
type BookMetadata struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	ISBN          string   `json:"isbn"`
	CoverURL      string   `json:"coverUrl"`
	Description   string   `json:"description"`
	Genres        []string `json:"genres"`
	PublishedYear int      `json:"publishedYear,omitempty"`
}

// FetchMetadataByISBN queries the Google Books API for catalog data.
func FetchMetadataByISBN(isbn string) (*BookMetadata, error) {
	isbn = strings.ReplaceAll(strings.TrimSpace(isbn), "-", "")
	if isbn == "" {
		return nil, fmt.Errorf("isbn is required")
	}
	q := url.Values{}
	q.Set("q", "isbn:"+isbn)
	resp, err := googleBooksClient.Get(googleBooksBase + "?" + q.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books returned %d", resp.StatusCode)
	}
	var data googleBooksVolumesResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if data.TotalItems == 0 || len(data.Items) == 0 {
		return nil, fmt.Errorf("no volume found for isbn %s", isbn)
	}
	vi := data.Items[0].VolumeInfo
	meta := &BookMetadata{
		Title:       vi.Title,
		Author:      strings.Join(vi.Authors, ", "),
		ISBN:        isbn,
		CoverURL:    vi.ImageLinks.Thumbnail,
		Description: vi.Description,
		Genres:      vi.Categories,
	}
	if vi.Subtitle != "" {
		meta.Title = meta.Title + ": " + vi.Subtitle
	}
	if len(vi.PublishedDate) >= 4 {
		if year, err := strconv.Atoi(vi.PublishedDate[:4]); err == nil {
			meta.PublishedYear = year
		}
	}
	return meta, nil
}
