package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcminio "github.com/testcontainers/testcontainers-go/modules/minio"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/media-storage-adapter/internal/adapter/handler"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/auth"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/config"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/middleware"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/server"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/storage"
	"github.com/marcos-nsantos/media-storage-adapter/internal/usecase/media"
)

const (
	testMinioImage   = "minio/minio:RELEASE.2024-01-16T16-07-38Z"
	testMinioUser    = "minioadmin"
	testMinioSecret  = "minioadmin"
	testBucket       = "media-e2e"
	testPublicDomain = "https://cdn.example.com"
	testJWTSecret    = "test-secret-key-for-e2e-tests"
	mediaAPIPath     = "/api/v1/media"
)

type TestApp struct {
	Server     *httptest.Server
	Service    *media.Service
	BaseURL    string
	Token      string
	httpClient *http.Client
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping e2e test in short mode")
	}

	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	container, err := tcminio.Run(ctx, testMinioImage,
		tcminio.WithUsername(testMinioUser),
		tcminio.WithPassword(testMinioSecret),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	admin, err := minio.New(endpoint, &minio.Options{
		Creds: credentials.NewStaticV4(testMinioUser, testMinioSecret, ""),
	})
	require.NoError(t, err)
	require.NoError(t, admin.MakeBucket(ctx, testBucket, minio.MakeBucketOptions{}))

	storageCfg := config.StorageConfig{
		Driver:            config.DriverS3,
		Endpoint:          "http://" + endpoint,
		Region:            "us-east-1",
		Bucket:            testBucket,
		AccessKeyID:       testMinioUser,
		SecretAccessKey:   testMinioSecret,
		PublicDomain:      testPublicDomain,
		UsePathStyle:      true,
		UploadConcurrency: 1,
	}
	imageCfg := config.ImageConfig{MaxWidth: 1280, Quality: 80, MaxUploadSize: 20 << 20}

	store, err := storage.NewS3Storage(storageCfg)
	require.NoError(t, err)

	logger := zap.NewNop()
	mediaSvc, err := media.NewService(store, storage.NewWebPTranscoder(imageCfg),
		media.Config{PublicDomain: storageCfg.PublicDomain}, logger)
	require.NoError(t, err)

	jwtSvc := auth.NewJWTService(config.JWTConfig{SecretKey: testJWTSecret}, 15*time.Minute)
	token, _, err := jwtSvc.GenerateToken("e2e-editor")
	require.NoError(t, err)

	router := server.NewRouter(server.RouterConfig{
		MediaHandler:   handler.NewMediaHandler(mediaSvc, imageCfg.MaxUploadSize, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(jwtSvc),
		Logger:         logger,
		Environment:    "test",
	})

	ts := httptest.NewServer(router.Engine())
	t.Cleanup(ts.Close)

	return &TestApp{
		Server:  ts,
		Service: mediaSvc,
		BaseURL: ts.URL,
		Token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (app *TestApp) do(t *testing.T, req *http.Request, authed bool) *http.Response {
	t.Helper()
	if authed {
		req.Header.Set("Authorization", "Bearer "+app.Token)
	}
	resp, err := app.httpClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (app *TestApp) upload(t *testing.T, fileName, contentType string, content []byte) *http.Response {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	h.Set("Content-Type", contentType)

	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, app.BaseURL+mediaAPIPath, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return app.do(t, req, true)
}

func (app *TestApp) get(t *testing.T, path string, authed bool) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, app.BaseURL+path, nil)
	require.NoError(t, err)
	return app.do(t, req, authed)
}

func (app *TestApp) delete(t *testing.T, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, app.BaseURL+path, nil)
	require.NoError(t, err)
	return app.do(t, req, true)
}

func parseResponse(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if dest != nil {
		err = json.Unmarshal(body, dest)
		require.NoError(t, err, "response body: %s", string(body))
	}
}

func pngImage(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
