package book

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBookID = "6f1c1d1e-3a5b-4b7e-9c1a-2f0e9c7d8b11"

func newTestHandler(t *testing.T) (*HTTPHandler, *MockRepository) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	return NewHTTPHandler(NewService(mockRepo)), mockRepo
}

func TestHTTPHandler_List(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	t.Run("success with paging", func(t *testing.T) {
		mockRepo.EXPECT().
			List(gomock.Any(), Query{Q: "dune", Limit: 10, Offset: 10}).
			Return([]Book{{ID: testBookID, Title: "Dune"}}, 11, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/books?q=dune&page=2&page_size=10", nil)

		handler.List(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		meta := body["meta"].(map[string]any)
		assert.Equal(t, float64(2), meta["total_pages"])
	})

	t.Run("page size is capped", func(t *testing.T) {
		mockRepo.EXPECT().
			List(gomock.Any(), Query{Limit: 20, Offset: 0}).
			Return([]Book{}, 0, nil)

		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/books?page_size=1000", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("error", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, 0, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/books", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), testBookID).Return(Book{ID: testBookID, Title: "Dune"}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/books/"+testBookID, nil)
		r.SetPathValue("id", testBookID)

		handler.Get(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), testBookID).Return(Book{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/books/"+testBookID, nil)
		r.SetPathValue("id", testBookID)

		handler.Get(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id never reaches the store", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/books/abc", nil)
		r.SetPathValue("id", "abc")

		handler.Get(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Create(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	tests := []struct {
		name           string
		body           string
		setupMock      func()
		expectedStatus int
	}{
		{
			name: "success",
			body: `{"title":"  Dune ","authors":["Frank Herbert"],"isbn_13":"9780441172719"}`,
			setupMock: func() {
				mockRepo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b *Book) error {
						assert.Equal(t, "Dune", b.Title)
						assert.Equal(t, []string{}, b.Genres)
						b.ID = testBookID
						return nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing title",
			body:           `{"authors":["Nobody"]}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "blank title",
			body:           `{"title":"   "}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad isbn length",
			body:           `{"title":"Dune","isbn_10":"123"}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown field",
			body:           `{"title":"Dune","avg_rating":5}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "isbn conflict",
			body: `{"title":"Dune","isbn_10":"0441172717"}`,
			setupMock: func() {
				mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(ErrConflict)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(tt.body))

			handler.Create(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestHTTPHandler_Patch(t *testing.T) {
	handler, mockRepo := newTestHandler(t)
	isbn := "9780441172719"

	mockRepo.EXPECT().GetByID(gomock.Any(), testBookID).Return(Book{
		ID:        testBookID,
		Title:     "Dune",
		Authors:   []string{"Frank Herbert"},
		ISBN13:    &isbn,
		Publisher: "Ace",
		Genres:    []string{"Science Fiction"},
	}, nil)
	mockRepo.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b *Book) error {
			assert.Equal(t, testBookID, b.ID)
			assert.Equal(t, "Dune", b.Title)
			assert.Equal(t, "Chilton", b.Publisher)
			assert.Nil(t, b.ISBN13)
			assert.Equal(t, []string{"Frank Herbert"}, b.Authors)
			return nil
		})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPatch, "/books/"+testBookID, strings.NewReader(`{"publisher":"Chilton","isbn_13":null}`))
	r.SetPathValue("id", testBookID)

	handler.Patch(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHTTPHandler_Delete(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().Delete(gomock.Any(), testBookID).Return(nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/books/"+testBookID, nil)
		r.SetPathValue("id", testBookID)

		handler.Delete(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		mockRepo.EXPECT().Delete(gomock.Any(), testBookID).Return(errors.New("db down"))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/books/"+testBookID, nil)
		r.SetPathValue("id", testBookID)

		handler.Delete(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
