/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package media

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"anime-vault-go/internal/models"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// SupabaseStore uploads to a Supabase Storage bucket over its REST API.
type SupabaseStore struct {
	baseURL    string
	anonKey    string
	bucket     string
	prefix     string
	httpClient *http.Client
	now        func() time.Time
}

var _ ImageStore = (*SupabaseStore)(nil)

type storageError struct {
	StatusCode string `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

func NewSupabaseStore(cfg models.StorageConfig, timeout time.Duration) (*SupabaseStore, error) {
	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	if cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("supabase anon key is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	if _, err := url.Parse(cfg.SupabaseURL); err != nil {
		return nil, fmt.Errorf("invalid supabase url: %w", err)
	}

	return &SupabaseStore{
		baseURL:    strings.TrimRight(cfg.SupabaseURL, "/"),
		anonKey:    cfg.SupabaseAnonKey,
		bucket:     cfg.Bucket,
		prefix:     cfg.PathPrefix,
		httpClient: createCustomHttpClient(timeout),
		now:        time.Now,
	}, nil
}

func createCustomHttpClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if err := http2.ConfigureTransport(transport); err != nil {
		zap.L().Warn("Failed to configure HTTP/2 for storage client, using HTTP/1.1", zap.Error(err))
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// Upload stores the image without overwriting and returns its public URL.
func (s *SupabaseStore) Upload(ctx context.Context, image Image) (string, error) {
	if image.Body == nil {
		return "", ErrEmptyImage
	}

	objectPath := ObjectPath(s.prefix, image.Filename, s.now())
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, escapePath(objectPath))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, image.Body)
	if err != nil {
		return "", fmt.Errorf("unable to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.anonKey)
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Content-Type", contentType(image))
	req.Header.Set("Cache-Control", "max-age=3600")
	req.Header.Set("x-upsert", "false")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("unable to upload %s: %w", objectPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var storageErr storageError
		if err := json.Unmarshal(body, &storageErr); err == nil && storageErr.Message != "" {
			return "", fmt.Errorf("upload of %s failed (%d): %s", objectPath, resp.StatusCode, storageErr.Message)
		}
		return "", fmt.Errorf("upload of %s failed (%d): %s", objectPath, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	publicURL := s.PublicURL(objectPath)
	zap.L().Info("Image uploaded",
		zap.String("backend", "supabase"),
		zap.String("path", objectPath),
		zap.String("url", publicURL))
	return publicURL, nil
}

func (s *SupabaseStore) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, escapePath(objectPath))
}

func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
