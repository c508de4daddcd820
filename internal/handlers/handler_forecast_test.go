package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	portssvc "github.com/flowlance/finplan_backend/internal/core/ports/services"
	"github.com/flowlance/finplan_backend/internal/handlers"
	"github.com/flowlance/finplan_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type ForecastHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	jwtSecret string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *ForecastHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "finplan-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *ForecastHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.router = gin.New()

	cfg := &config.Config{JWTSecret: suite.jwtSecret}
	// The DCF endpoints are pure computations; the container's services are
	// not reached by them.
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{})
}

func (suite *ForecastHandlerTestSuite) postIRR(body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/forecast/irr", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("operator"))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *ForecastHandlerTestSuite) TestIRR_DefaultGuess() {
	// -1000 then 1100 one period later cancels exactly at 10%
	w := suite.postIRR(`{"cashFlows": [-1000, 1100]}`)

	suite.Equal(http.StatusOK, w.Code)

	var body map[string]float64
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.InDelta(0.10, body["irr"], 1e-4)
}

func (suite *ForecastHandlerTestSuite) TestIRR_GuessSelectsRoot() {
	// -1000u^2 + 2500u - 1540 = 0 for u = 1+r has roots at r = 0.10 and
	// r = 0.40; the seed decides which one the iteration lands on.
	low := suite.postIRR(`{"cashFlows": [-1000, 2500, -1540], "guess": 0.05}`)
	high := suite.postIRR(`{"cashFlows": [-1000, 2500, -1540], "guess": 0.45}`)

	suite.Equal(http.StatusOK, low.Code)
	suite.Equal(http.StatusOK, high.Code)

	var lowBody, highBody map[string]float64
	suite.Require().NoError(json.Unmarshal(low.Body.Bytes(), &lowBody))
	suite.Require().NoError(json.Unmarshal(high.Body.Bytes(), &highBody))
	suite.InDelta(0.10, lowBody["irr"], 1e-3)
	suite.InDelta(0.40, highBody["irr"], 1e-3)
}

func (suite *ForecastHandlerTestSuite) TestIRR_TooFewFlowsRejected() {
	w := suite.postIRR(`{"cashFlows": [-1000]}`)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ForecastHandlerTestSuite) TestIRR_RequiresAuth() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/forecast/irr", strings.NewReader(`{"cashFlows": [-1000, 1100]}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func TestForecastHandler(t *testing.T) {
	suite.Run(t, new(ForecastHandlerTestSuite))
}
