package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentFeedItemSerializesNullFields(t *testing.T) {
	item := EnrollmentFeedItem{
		ID:        42,
		FirstName: "Ana",
		LastName:  "Horvat",
	}

	data, err := json.Marshal(item)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": 42,
		"firstName": "Ana",
		"lastName": "Horvat",
		"semester": null,
		"year": null,
		"grade": null,
		"finishDate": null
	}`, string(data))
}

func TestEnrollmentFeedItemSerializesPopulatedFields(t *testing.T) {
	semester := "winter"
	year := int64(2024)
	grade := int64(9)
	finish := time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)

	item := EnrollmentFeedItem{
		ID:         7,
		FirstName:  "Ivan",
		LastName:   "Novak",
		Semester:   &semester,
		Year:       &year,
		Grade:      &grade,
		FinishDate: &finish,
	}

	data, err := json.Marshal(item)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": 7,
		"firstName": "Ivan",
		"lastName": "Novak",
		"semester": "winter",
		"year": 2024,
		"grade": 9,
		"finishDate": "2025-02-14T00:00:00Z"
	}`, string(data))
}
