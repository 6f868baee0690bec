package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portfolio-api/internal/models"
	"github.com/noah-isme/portfolio-api/internal/service"
)

type sequenceRepo struct {
	nextID uint
	calls  int
}

func (r *sequenceRepo) Create(_ context.Context, submission *models.ContactSubmission) error {
	r.calls++
	r.nextID++
	submission.ID = r.nextID
	return nil
}

func compileSchema(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	schemaPath, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)

	schema, err := jsonschema.NewCompiler().Compile("file://" + filepath.ToSlash(schemaPath))
	require.NoError(t, err)
	return schema
}

func newPipelineApp(t *testing.T, captchaBody string, repo *sequenceRepo) *fiber.App {
	t.Helper()
	turnstile := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(captchaBody))
	}))
	t.Cleanup(turnstile.Close)

	logger := zerolog.Nop()
	verifier := service.NewTurnstileVerifier(service.TurnstileConfig{SecretKey: "secret", VerifyURL: turnstile.URL}, nil, logger)
	dispatcher := service.NewAsyncContactDispatcher(time.Second, logger, service.NewLogContactDelivery(logger))
	t.Cleanup(dispatcher.Wait)

	svc := service.NewContactService(repo, service.NewContactValidator(nil), verifier, nil, dispatcher, logger)
	return newContactApp(svc)
}

func readJSON(t *testing.T, resp *http.Response) interface{} {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload
}

func TestContactContract_Success(t *testing.T) {
	repo := &sequenceRepo{nextID: 6}
	app := newPipelineApp(t, `{"success":true}`, repo)

	resp := postContact(t, app, []byte(`{"Name":"A","Email":"a@b.com","Phone":"555","Description":"hi","token":"valid"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := readJSON(t, resp)
	require.NoError(t, compileSchema(t, "contact_response.schema.json").Validate(payload))
	require.Equal(t, map[string]interface{}{"success": true, "FormID": float64(7)}, payload)
}

func TestContactContract_CaptchaRejected(t *testing.T) {
	repo := &sequenceRepo{}
	app := newPipelineApp(t, `{"success":false}`, repo)

	resp := postContact(t, app, []byte(`{"Name":"A","Email":"a@b.com","Phone":"555","Description":"hi","token":"valid"}`))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.NoError(t, compileSchema(t, "error_response.schema.json").Validate(readJSON(t, resp)))
	require.Zero(t, repo.calls)
}

func TestContactContract_EmptyDescription(t *testing.T) {
	repo := &sequenceRepo{}
	app := newPipelineApp(t, `{"success":true}`, repo)

	resp := postContact(t, app, []byte(`{"Name":"A","Email":"a@b.com","Phone":"555","Description":"","token":"valid"}`))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NoError(t, compileSchema(t, "error_response.schema.json").Validate(readJSON(t, resp)))
	require.Zero(t, repo.calls)
}

func TestContactContract_MissingToken(t *testing.T) {
	repo := &sequenceRepo{}
	app := newPipelineApp(t, `{"success":true}`, repo)

	resp := postContact(t, app, []byte(`{"Name":"A","Email":"a@b.com","Phone":"555","Description":"hi"}`))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Zero(t, repo.calls)
}
