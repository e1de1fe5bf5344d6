package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mmfintech/bytebank_backend/utils"
)

func respondStatus(t *testing.T, err error) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/user/auth", nil)
	RespondError(c, err)
	return recorder.Code
}

func TestRespondError_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"bad credentials", utils.NewAuthError("invalid username or password"), http.StatusUnauthorized},
		{"disabled user", utils.NewAuthError("user is disabled"), http.StatusUnauthorized},
		{"wrong old password", utils.NewAuthError("old password is wrong"), http.StatusUnauthorized},
		{"unauthorized sentinel", utils.ErrorUnauthorized, http.StatusUnauthorized},
		{"expired token", utils.ErrorTokenExpired, http.StatusUnauthorized},
		{"not found", utils.ErrorRecordNotFound, http.StatusNotFound},
		{"invalid pagination", utils.ErrorInvalidPagination, http.StatusBadRequest},
		{"validation", utils.NewValidationError(map[string]string{"amount": "required"}), http.StatusBadRequest},
		{"duplicate", utils.NewDuplicateError("username"), http.StatusBadRequest},
		{"unclassified", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := respondStatus(t, tc.err); got != tc.want {
				t.Fatalf("status = %d, want %d", got, tc.want)
			}
		})
	}
}
