package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// UpstreamError carries the status code and message returned by the remote
// bookstore API, so callers can surface the server-provided message.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream responded %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream responded %d", e.StatusCode)
}

var _ CatalogAPI = (*restCatalogClient)(nil)

// restCatalogClient talks to the remote bookstore REST API. Every call is a
// single round trip bounded by the request context and the client timeout.
type restCatalogClient struct {
	logger  *zap.Logger
	baseURL string
	client  *http.Client
}

// NewCatalogClient provides a ready to use client of the upstream bookstore API.
func NewCatalogClient(logger *zap.Logger, cfg *UpstreamConfig) CatalogAPI {
	return &restCatalogClient{
		logger:  logger,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchAllBooks retrieves the unpaginated list of available books.
func (rc *restCatalogClient) FetchAllBooks(ctx context.Context) ([]Book, error) {
	var books []Book
	err := rc.get(ctx, "/books/available", nil, &books)
	return books, err
}

// FetchBooksPage retrieves one server-side page of books with the paging totals.
func (rc *restCatalogClient) FetchBooksPage(ctx context.Context, page, size int) (BookPage, error) {
	var bp BookPage
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	err := rc.get(ctx, "/books", q, &bp)
	return bp, err
}

// FetchBooksByCategory retrieves the books of one category.
func (rc *restCatalogClient) FetchBooksByCategory(ctx context.Context, category string) ([]Book, error) {
	var books []Book
	err := rc.get(ctx, "/books/category/"+url.PathEscape(category), nil, &books)
	return books, err
}

// SearchBooks retrieves the books matching a free text keyword.
func (rc *restCatalogClient) SearchBooks(ctx context.Context, keyword string) ([]Book, error) {
	var books []Book
	q := url.Values{}
	q.Set("keyword", keyword)
	err := rc.get(ctx, "/books/search", q, &books)
	return books, err
}

// FetchActivePacks retrieves the currently sold packs.
func (rc *restCatalogClient) FetchActivePacks(ctx context.Context) ([]Pack, error) {
	var packs []Pack
	err := rc.get(ctx, "/packs/active", nil, &packs)
	return packs, err
}

// FetchPackByID retrieves one pack.
func (rc *restCatalogClient) FetchPackByID(ctx context.Context, id int) (Pack, error) {
	var pack Pack
	err := rc.get(ctx, "/packs/"+strconv.Itoa(id), nil, &pack)
	if ue, ok := err.(*UpstreamError); ok && ue.StatusCode == http.StatusNotFound {
		return pack, ErrPackNotFound
	}
	return pack, err
}

// FetchDailyOffers retrieves the current daily offers.
func (rc *restCatalogClient) FetchDailyOffers(ctx context.Context) ([]Offer, error) {
	var offers []Offer
	err := rc.get(ctx, "/offers/daily", nil, &offers)
	return offers, err
}

// SubmitOrder posts a validated order and returns the created record.
func (rc *restCatalogClient) SubmitOrder(ctx context.Context, req OrderRequest) (OrderRecord, error) {
	var rec OrderRecord
	payload, err := json.Marshal(req)
	if err != nil {
		return rec, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, rc.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return rec, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := rc.client.Do(httpReq)
	if err != nil {
		return rec, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return rec, rc.upstreamFailure(resp)
	}
	err = json.NewDecoder(resp.Body).Decode(&rec)
	return rec, err
}

// get performs one GET round trip and decodes the json body into out.
func (rc *restCatalogClient) get(ctx context.Context, path string, query url.Values, out any) error {
	target := rc.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := rc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return rc.upstreamFailure(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// upstreamFailure builds an UpstreamError from a non-2xx response, keeping
// the server message when the body carries one.
func (rc *restCatalogClient) upstreamFailure(resp *http.Response) error {
	ue := &UpstreamError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return ue
	}
	var msg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &msg); err == nil && msg.Message != "" {
		ue.Message = msg.Message
	}
	return ue
}
