package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	v1 "github.com/andrewsinnovations/apialize-sub000/api/v1"
	"github.com/andrewsinnovations/apialize-sub000/internal/handlers"
	srvErrors "github.com/andrewsinnovations/apialize-sub000/pkg/errors"
	"github.com/andrewsinnovations/apialize-sub000/pkg/query"
)

var _ = Describe("Listing Handlers", func() {
	var (
		mockList *MockListingService
		router   *gin.Engine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		mockList = &MockListingService{}
		router = gin.New()
		handlers.New(mockList).RegisterRoutes(router.Group("/api/v1"))
	})

	someResult := func(rows ...query.Row) *query.Result {
		return &query.Result{
			Rows:   rows,
			Order:  []query.OrderEntry{{Field: query.FieldRef{Entity: "products", Column: "name"}, Token: "name"}},
			Window: query.Window{Page: 1, Size: 20, Limit: 20},
			Total:  len(rows),
		}
	}

	Describe("List", func() {
		It("returns the envelope for a plain listing", func() {
			mockList.ListResult = someResult(query.Row{"id": "sku-1", "name": "Anvil"})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mockList.LastEntity).To(Equal("products"))

			var response v1.ListResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Success).To(BeTrue())
			Expect(response.Data).To(HaveLen(1))
			Expect(response.Meta.Count).To(Equal(1))
			Expect(response.Meta.TotalPages).To(Equal(1))
			Expect(response.Meta.Order).To(Equal([]query.OrderPair{{OrderBy: "name", Direction: "asc"}}))
		})

		It("passes query-string filters through the wire grammar", func() {
			mockList.ListResult = someResult()

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products?status=active&price:gte=10&order_by=-price&page=2", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mockList.LastRequest.Filtering).To(Equal(query.FilterSpec{
				"status": "active",
				"price":  map[string]any{"gte": "10"},
			}))
			Expect(mockList.LastRequest.Ordering).To(Equal("-price"))
			Expect(mockList.LastRequest.Paging.Page).To(Equal(2))
		})

		It("rejects an unknown query-string operator without touching the service", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products?price:near=10", nil))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(mockList.ListCallCount).To(Equal(0))

			var response v1.ErrorResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Success).To(BeFalse())
			Expect(response.Error).To(Equal("invalid listing request"))
		})

		It("maps validation errors to 400 with a generic message", func() {
			mockList.ListError = query.NewUnknownFieldError("bogus")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products?bogus=1", nil))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).NotTo(ContainSubstring("bogus"))
		})

		It("maps unknown entities to 404", func() {
			mockList.ListError = srvErrors.NewUnknownEntityError("ghosts")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ghosts", nil))

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("maps infrastructure errors to 500", func() {
			mockList.ListError = query.NewLookupInfrastructureError("owners", errors.New("connection refused"))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).NotTo(ContainSubstring("connection refused"))
		})
	})

	Describe("Search", func() {
		It("parses the body grammar", func() {
			mockList.ListResult = someResult()

			body := `{
				"filtering": {"and": [{"status": "active"}]},
				"ordering": [{"order_by": "price", "direction": "desc"}],
				"paging": {"page": 3, "size": 5}
			}`
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/products/search", strings.NewReader(body)))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mockList.LastRequest.Filtering).To(HaveKey("and"))
			Expect(mockList.LastRequest.Paging).To(Equal(query.PageSpec{Page: 3, Size: 5}))
		})

		It("rejects malformed JSON", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/products/search", strings.NewReader(`{"filtering": `)))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(mockList.ListCallCount).To(Equal(0))
		})
	})

	Describe("Export", func() {
		It("streams a workbook with the spreadsheet content type", func() {
			mockList.ExportResult = excelize.NewFile()

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/export?status=active", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(ContainSubstring("spreadsheetml"))
			Expect(w.Header().Get("Content-Disposition")).To(ContainSubstring("products.xlsx"))
			Expect(w.Body.Len()).To(BeNumerically(">", 0))
			Expect(mockList.ExportCallCount).To(Equal(1))
		})

		It("maps export failures like listing failures", func() {
			mockList.ExportError = query.NewUnknownFieldError("bogus")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/export?bogus=1", nil))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
