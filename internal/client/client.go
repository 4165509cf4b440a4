// Package client is a Go REST client for the API. It drives the HTTP
// surface and mirrors responses into the state containers, so callers
// observe the session, restaurant list and search results the same way
// the web frontend does.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chukanavi/chukanavi/internal/handler/dto"
	"github.com/chukanavi/chukanavi/internal/model"
	"github.com/chukanavi/chukanavi/internal/state"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// envelope mirrors the server's response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// Client calls the REST API and keeps the state containers in sync.
type Client struct {
	baseURL string
	http    *http.Client

	Auth        *state.AuthState
	Restaurants *state.RestaurantState
	Search      *state.SearchState
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: 30 * time.Second},
		Auth:        state.NewAuthState(),
		Restaurants: state.NewRestaurantState(),
		Search:      state.NewSearchState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Signup registers an account and stores the session in AuthState.
func (c *Client) Signup(ctx context.Context, email, password, nickname string) (*model.User, error) {
	var data struct {
		User  model.User `json:"user"`
		Token string     `json:"token"`
	}
	req := dto.SignupRequest{Email: email, Password: password, Nickname: nickname}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup", req, &data); err != nil {
		return nil, err
	}
	c.Auth.SetSession(&data.User, data.Token)
	return &data.User, nil
}

// Login authenticates and stores the session in AuthState.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	var data struct {
		User  model.User `json:"user"`
		Token string     `json:"token"`
	}
	req := dto.LoginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", req, &data); err != nil {
		return nil, err
	}
	c.Auth.SetSession(&data.User, data.Token)
	return &data.User, nil
}

// Logout clears the session locally and best-effort notifies the server
// so the cached identity is evicted.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.Auth.Clear()
	return err
}

// Me fetches the current identity. A 401 clears the local session.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			c.Auth.Clear()
		}
		return nil, err
	}
	return &user, nil
}

// ListRestaurants fetches all restaurants into RestaurantState.
func (c *Client) ListRestaurants(ctx context.Context) ([]*model.Restaurant, error) {
	var restaurants []*model.Restaurant
	if err := c.doJSON(ctx, http.MethodGet, "/api/restaurants", nil, &restaurants); err != nil {
		return nil, err
	}
	c.Restaurants.SetAll(restaurants)
	return restaurants, nil
}

// GetRestaurant fetches one restaurant and selects it in RestaurantState.
func (c *Client) GetRestaurant(ctx context.Context, id string) (*model.Restaurant, error) {
	var rest model.Restaurant
	if err := c.doJSON(ctx, http.MethodGet, "/api/restaurants/"+url.PathEscape(id), nil, &rest); err != nil {
		return nil, err
	}
	c.Restaurants.Select(&rest)
	return &rest, nil
}

// CreateRestaurant registers a restaurant and mirrors it into
// RestaurantState.
func (c *Client) CreateRestaurant(ctx context.Context, req dto.CreateRestaurantRequest) (*model.Restaurant, error) {
	var rest model.Restaurant
	if err := c.doJSON(ctx, http.MethodPost, "/api/restaurants", req, &rest); err != nil {
		return nil, err
	}
	c.Restaurants.Upsert(&rest)
	return &rest, nil
}

// UpdateRestaurant applies a partial update and mirrors the result.
func (c *Client) UpdateRestaurant(ctx context.Context, id string, req dto.UpdateRestaurantRequest) (*model.Restaurant, error) {
	var rest model.Restaurant
	if err := c.doJSON(ctx, http.MethodPut, "/api/restaurants/"+url.PathEscape(id), req, &rest); err != nil {
		return nil, err
	}
	c.Restaurants.Upsert(&rest)
	return &rest, nil
}

// DeleteRestaurant deletes a restaurant and drops it from RestaurantState.
func (c *Client) DeleteRestaurant(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/restaurants/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	c.Restaurants.Remove(id)
	return nil
}

// SearchRestaurants runs a filtered search and stores it in SearchState.
func (c *Client) SearchRestaurants(ctx context.Context, filter model.SearchFilter) ([]*model.Restaurant, error) {
	q := url.Values{}
	if filter.Query != "" {
		q.Set("query", filter.Query)
	}
	if filter.PriceRange != "" {
		q.Set("price_range", filter.PriceRange)
	}
	if filter.Parking != nil {
		q.Set("parking", strconv.FormatBool(*filter.Parking))
	}
	if filter.ReservationRequired != nil {
		q.Set("reservation_required", strconv.FormatBool(*filter.ReservationRequired))
	}

	path := "/api/restaurants/search"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	var results []*model.Restaurant
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &results); err != nil {
		return nil, err
	}
	c.Search.SetResults(filter, results)
	return results, nil
}

// ListImages fetches a restaurant's images grouped by category.
func (c *Client) ListImages(ctx context.Context, restaurantID string) (model.GroupedImages, error) {
	var grouped model.GroupedImages
	path := "/api/restaurants/" + url.PathEscape(restaurantID) + "/images"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &grouped); err != nil {
		return nil, err
	}
	return grouped, nil
}

// UploadImage uploads an image file for a restaurant the caller owns.
func (c *Client) UploadImage(ctx context.Context, restaurantID string, category model.ImageCategory, fileName string, file io.Reader) (*model.Image, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("category", string(category)); err != nil {
		return nil, fmt.Errorf("write category field: %w", err)
	}
	part, err := mw.CreateFormFile("image", fileName)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	path := "/api/restaurants/" + url.PathEscape(restaurantID) + "/images"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var img model.Image
	if err := c.do(req, &img); err != nil {
		return nil, err
	}
	return &img, nil
}

// DeleteImage removes an image from a restaurant the caller owns.
func (c *Client) DeleteImage(ctx context.Context, restaurantID, imageID string) error {
	path := "/api/restaurants/" + url.PathEscape(restaurantID) + "/images?imageId=" + url.QueryEscape(imageID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// doJSON performs a JSON request and decodes the envelope's data into out.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

// do sends the request with the session token attached and decodes the
// response envelope.
func (c *Client) do(req *http.Request, out any) error {
	if tok := c.Auth.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data payload: %w", err)
		}
	}
	return nil
}
