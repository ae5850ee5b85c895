package endpoint

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/julienschmidt/httprouter"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/datastax/urlquery/auth"
	"github.com/datastax/urlquery/builder"
	"github.com/datastax/urlquery/config"
	"github.com/datastax/urlquery/db"
	"github.com/datastax/urlquery/log"
	m "github.com/datastax/urlquery/rest/models"
)

var _ = Describe("Routes", func() {
	var (
		session  *db.SessionMock
		metrics  *Metrics
		router   *httprouter.Router
		registry *config.Registry
	)

	serve := func(target string, header ...string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		for i := 0; i+1 < len(header); i += 2 {
			req.Header.Set(header[i], header[i+1])
		}
		recorder := httptest.NewRecorder()
		auth.NewUserOrRoleHandler(router).ServeHTTP(recorder, req)
		return recorder
	}

	BeforeEach(func() {
		session = db.NewSessionMock()
		metrics = NewMetrics(prometheus.NewRegistry())

		var err error
		registry, err = config.NewRegistry([]config.Resource{config.OrdersResource()})
		Expect(err).NotTo(HaveOccurred())

		router = httprouter.New()
		logger := log.NewZapLogger(zap.NewNop())
		for _, route := range Routes("/api", registry, db.NewDbWithSession(session), builder.PostgresDialect{}, logger, metrics) {
			router.Handler(route.Method, route.Pattern, route.Handler)
		}
	})

	Describe("GetRows()", func() {
		It("Should translate the query-string and return the rows", func() {
			result := &db.ResultMock{}
			result.
				On("PageState").Return("").
				On("Values").Return([]map[string]interface{}{
				{"order_id": 1, "price": 250.0},
			})

			session.
				On("ExecuteIter",
					"SELECT * FROM orders WHERE user_id = $1 AND order_id = $2 AND price >= $3 ORDER BY price DESC LIMIT 10 OFFSET 0",
					mock.MatchedBy(func(options *db.QueryOptions) bool { return options.UserOrRole == "reporting" }),
					[]interface{}{123, 1, float64(200)}).
				Return(result, nil)

			recorder := serve("/api/v1/resources/orders/rows?userId=123&filter[]=orderId-eq-1&filter[]=price-ge-200&sort=price-desc&limit=10&offset=0",
				auth.UserOrRoleHeader, "reporting")

			Expect(recorder.Code).To(Equal(http.StatusOK))
			var rows m.Rows
			Expect(json.Unmarshal(recorder.Body.Bytes(), &rows)).To(Succeed())
			Expect(rows.Count).To(Equal(1))
			Expect(rows.Rows[0]["price"]).To(Equal(250.0))
			Expect(testutil.ToFloat64(metrics.requests.WithLabelValues("orders", "200"))).To(Equal(1.0))
			session.AssertExpectations(GinkgoT())
		})

		It("Should turn plain fields into equality conditions", func() {
			result := &db.ResultMock{}
			result.
				On("PageState").Return("").
				On("Values").Return([]map[string]interface{}{})
			session.
				On("ExecuteIter",
					"SELECT * FROM orders WHERE status = $1 AND user_id = $2 ORDER BY order_id ASC",
					mock.Anything,
					[]interface{}{"open", 123}).
				Return(result, nil)

			recorder := serve("/api/v1/resources/orders/rows?userId=123&status=open&sort=orderId-asc", auth.UserOrRoleHeader, "reporting")

			Expect(recorder.Code).To(Equal(http.StatusOK))
			session.AssertExpectations(GinkgoT())
		})

		It("Should return bad request for paging parameters outside cassandra", func() {
			recorder := serve("/api/v1/resources/orders/rows?userId=1&pageState=0aff", auth.UserOrRoleHeader, "reporting")

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(recorder.Body.String()).To(ContainSubstring("pageState is only supported by the cassandra driver"))
			session.AssertNotCalled(GinkgoT(), "ExecuteIter", mock.Anything, mock.Anything, mock.Anything)
		})

		It("Should return bad request for a list of a plain field", func() {
			recorder := serve("/api/v1/resources/orders/rows?userId=1&orderId[]=1&orderId[]=2", auth.UserOrRoleHeader, "reporting")

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(recorder.Body.String()).To(ContainSubstring("orderId[] is not supported, use filter[] instead"))
		})

		It("Should return bad request for a field outside the allowlist", func() {
			recorder := serve("/api/v1/resources/orders/rows?userId=1&secret=1", auth.UserOrRoleHeader, "reporting")

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			var modelError m.ModelError
			Expect(json.Unmarshal(recorder.Body.Bytes(), &modelError)).To(Succeed())
			Expect(modelError.Code).To(Equal(http.StatusBadRequest))
			Expect(modelError.Description).To(Equal(`field "secret" is not allowed`))
			Expect(testutil.ToFloat64(metrics.requests.WithLabelValues("orders", "400"))).To(Equal(1.0))
			session.AssertNotCalled(GinkgoT(), "ExecuteIter", mock.Anything, mock.Anything, mock.Anything)
		})

		It("Should return bad request when a required field is only filtered on", func() {
			recorder := serve("/api/v1/resources/orders/rows?filter[]=userId-eq-1", auth.UserOrRoleHeader, "reporting")

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(recorder.Body.String()).To(ContainSubstring("userId is required"))
		})

		It("Should return bad request when a value does not match the column type", func() {
			recorder := serve("/api/v1/resources/orders/rows?userId=1&filter[]=price-gt-cheap", auth.UserOrRoleHeader, "reporting")

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(recorder.Body.String()).To(ContainSubstring("is not a valid double"))
		})

		It("Should return not found for an unknown resource", func() {
			recorder := serve("/api/v1/resources/users/rows", auth.UserOrRoleHeader, "reporting")

			Expect(recorder.Code).To(Equal(http.StatusNotFound))
			Expect(testutil.ToFloat64(metrics.requests.WithLabelValues("unknown", "404"))).To(Equal(1.0))
		})

		It("Should return an internal error when the statement fails", func() {
			session.
				On("ExecuteIter", "SELECT * FROM orders WHERE user_id = $1", mock.Anything, []interface{}{1}).
				Return(nil, errors.New("connection refused"))

			recorder := serve("/api/v1/resources/orders/rows?userId=1", auth.UserOrRoleHeader, "reporting")

			Expect(recorder.Code).To(Equal(http.StatusInternalServerError))
			Expect(recorder.Body.String()).To(ContainSubstring("unable to query rows"))
			Expect(recorder.Body.String()).NotTo(ContainSubstring("connection refused"))
		})

		It("Should reject requests without a user or role", func() {
			recorder := serve("/api/v1/resources/orders/rows?userId=1")

			Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
			session.AssertNotCalled(GinkgoT(), "ExecuteIter", mock.Anything, mock.Anything, mock.Anything)
		})

		It("Should serve resources added to the registry", func() {
			users := config.Resource{
				Name:      "users",
				Statement: "SELECT * FROM users",
				Columns:   []config.Column{{Name: "email", Type: "text"}},
				Naming:    config.SnakeCase,
			}
			Expect(registry.Replace([]config.Resource{config.OrdersResource(), users})).To(Succeed())

			result := &db.ResultMock{}
			result.
				On("PageState").Return("").
				On("Values").Return([]map[string]interface{}{})
			session.
				On("ExecuteIter", "SELECT * FROM users WHERE email = $1", mock.Anything, []interface{}{"a@b.c"}).
				Return(result, nil)

			recorder := serve("/api/v1/resources/users/rows?filter[]=email-eq-a%40b.c", auth.UserOrRoleHeader, "reporting")

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(recorder.Body.String()).To(MatchJSON(`{"rows":[],"count":0}`))
		})
	})

	Describe("GetResources()", func() {
		It("Should list the served resources", func() {
			recorder := serve("/api/v1/resources", auth.UserOrRoleHeader, "reporting")

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(recorder.Body.String()).To(MatchJSON(`{"resources":["orders"]}`))
		})
	})
})
