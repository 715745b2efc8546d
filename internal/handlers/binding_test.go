package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type bindTarget struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    bindTarget
		expectError bool
	}{
		{
			name:     "Nested Structure",
			key:      "customer",
			body:     `{"customer": {"name": "Amira", "phone": "76123456"}}`,
			expected: bindTarget{Name: "Amira", Phone: "76123456"},
		},
		{
			name:     "Flat Structure",
			key:      "customer",
			body:     `{"name": "Walid", "phone": "03555123"}`,
			expected: bindTarget{Name: "Walid", Phone: "03555123"},
		},
		{
			name:     "Missing Key Falls Back To Flat",
			key:      "customer",
			body:     `{"other": "value", "name": "Hadi", "phone": "71999888"}`,
			expected: bindTarget{Name: "Hadi", Phone: "71999888"},
		},
		{
			name:     "Different Key",
			key:      "payment",
			body:     `{"payment": {"name": "Nour", "phone": "70111222"}}`,
			expected: bindTarget{Name: "Nour", Phone: "70111222"},
		},
		{
			name:        "Invalid JSON",
			key:         "customer",
			body:        `{"name": "Eve", "phone": 5}`,
			expectError: true,
		},
		{
			name:        "Nested Key Present but Invalid Type",
			key:         "customer",
			body:        `{"customer": "some string"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result bindTarget
			err := BindNestedOrFlat(c, tt.key, &result)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}
