package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edverse/registrar/internal/app/models/dto"
)

func bindStudentCreate(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/api/v1/students", strings.NewReader(body))
	ctx.Request.Header.Set("Content-Type", "application/json")

	var req dto.CreateStudentRequest
	return ctx.ShouldBindJSON(&req)
}

func TestStudentNumberBindingTag(t *testing.T) {
	RegisterCustomValidators()

	valid := `{
		"user": {"firstName": "Ana", "lastName": "Horvat", "email": "ana@uni.edu", "password": "longenough"},
		"studentNumber": "12345"
	}`
	require.NoError(t, bindStudentCreate(t, valid))

	invalid := `{
		"user": {"firstName": "Ana", "lastName": "Horvat", "email": "ana@uni.edu", "password": "longenough"},
		"studentNumber": "12AB"
	}`
	err := bindStudentCreate(t, invalid)
	require.Error(t, err)

	detail := dto.HandleValidationError(err)
	assert.Equal(t, dto.ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, "studentNumber", detail.Field)

	// Over-length numbers fail the same pattern
	tooLong := `{
		"user": {"firstName": "Ana", "lastName": "Horvat", "email": "ana@uni.edu", "password": "longenough"},
		"studentNumber": "12345678901"
	}`
	err = bindStudentCreate(t, tooLong)
	require.Error(t, err)
	assert.Equal(t, "studentNumber", dto.HandleValidationError(err).Field)
}
