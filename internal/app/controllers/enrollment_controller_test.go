package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edverse/registrar/internal/app/models/dto"
	"github.com/edverse/registrar/internal/middleware"
)

func newJSONRequestContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	middleware.RegisterCustomValidators()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	ctx.Request.Header.Set("Content-Type", "application/json")
	return ctx, w
}

func TestCreateEnrollment_BindErrorNamesOffendingField(t *testing.T) {
	body := `{"courseId":1,"studentId":2,"semester":"waytoolongsemester"}`
	ctx, w := newJSONRequestContext(t, http.MethodPost, "/api/v1/enrollments", body)

	ctrl := NewEnrollmentController(nil)
	ctrl.Create(ctx)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
	assert.Equal(t, "semester", resp.Error.Field)
	assert.False(t, resp.Success)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestCreateEnrollment_MissingRequiredFieldNamed(t *testing.T) {
	body := `{"studentId":2}`
	ctx, w := newJSONRequestContext(t, http.MethodPost, "/api/v1/enrollments", body)

	ctrl := NewEnrollmentController(nil)
	ctrl.Create(ctx)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "courseId", resp.Error.Field)
}
