package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

const mockBucket = "mock-bucket"

// mockS3 is a fake S3 transport covering Head, Get and ListObjectsV2 on a
// path-style endpoint.
type mockS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    bool
}

func (m *mockS3) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return respond(http.StatusInternalServerError, nil, nil), nil
	}

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	if req.Method == http.MethodGet && req.URL.Query().Get("list-type") == "2" {
		prefix := req.URL.Query().Get("prefix")
		keys := make([]string, 0, len(m.objects))
		for k := range m.objects {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
		for _, k := range keys {
			fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size><LastModified>2024-01-01T00:00:00Z</LastModified></Contents>", k, len(m.objects[k]))
		}
		b.WriteString("</ListBucketResult>")
		return respond(http.StatusOK, http.Header{"Content-Type": {"application/xml"}}, []byte(b.String())), nil
	}

	body, ok := m.objects[key]
	if !ok {
		return respond(http.StatusNotFound, http.Header{}, nil), nil
	}
	header := http.Header{
		"Content-Length": {fmt.Sprintf("%d", len(body))},
		"Content-Type":   {"image/jpeg"},
		"Etag":           {`"etag123"`},
		"Last-Modified":  {time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Format(http.TimeFormat)},
	}
	switch req.Method {
	case http.MethodHead:
		return respond(http.StatusOK, header, nil), nil
	case http.MethodGet:
		return respond(http.StatusOK, header, body), nil
	}
	return respond(http.StatusNotImplemented, http.Header{}, nil), nil
}

func respond(status int, header http.Header, body []byte) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode:    status,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

func newMockS3Store(t *testing.T, objects map[string][]byte) (*S3Store, *mockS3) {
	t.Helper()
	rt := &mockS3{objects: objects}
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
		o.RetryMaxAttempts = 1
	})
	return newS3Store(client, mockBucket), rt
}
