package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"studentdesk/internal/student"
)

// newTestClient starts a server with handler mounted at /api/students.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/api/students/")
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClient_List(t *testing.T) {
	var gotReqID, gotMethod string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotReqID = r.Header.Get(RequestIDHeader)
		assert.Equal(t, "/api/students", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"success":true,"message":"ok","data":[
			{"id":1,"name":"Asha","birthDate":"2001-04-09","mobileNo":"555-0101"},
			{"id":2,"name":"Ben","birthDate":[2000,1,31],"mobileNo":"555-0102","photoBase64":"QUJD"}
		]}`)
	}))

	records, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.NotEmpty(t, gotReqID)
	assert.Equal(t, int64(1), records[0].ID)
	assert.Equal(t, "2001-04-09", records[0].BirthDate.String())
	assert.Equal(t, "2000-01-31", records[1].BirthDate.String())
	assert.True(t, records[1].HasPhoto())
}

func TestClient_ListEmptyData(t *testing.T) {
	for _, body := range []string{
		`{"success":true,"data":[]}`,
		`{"success":true,"data":null}`,
		`{"success":true}`,
	} {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, body)
		}))
		records, err := c.List(context.Background())
		require.NoError(t, err, body)
		assert.Empty(t, records, body)
	}
}

func TestClient_ListErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
	}{
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{"success":false,"message":"database down"}`,
			kind:    KindStatus,
			message: "HTTP error! Status: 500 (database down)",
		},
		{
			name:    "status without body",
			status:  http.StatusBadGateway,
			body:    ``,
			kind:    KindStatus,
			message: "HTTP error! Status: 502",
		},
		{
			name:    "envelope failure",
			status:  http.StatusOK,
			body:    `{"success":false,"message":"not allowed"}`,
			kind:    KindEnvelope,
			message: "not allowed",
		},
		{
			name:    "envelope failure without message",
			status:  http.StatusOK,
			body:    `{"success":false}`,
			kind:    KindEnvelope,
			message: "Failed to load students",
		},
		{
			name:   "not json",
			status: http.StatusOK,
			body:   `<html>oops</html>`,
			kind:   KindShape,
		},
		{
			name:   "data not an array",
			status: http.StatusOK,
			body:   `{"success":true,"data":{"id":1}}`,
			kind:   KindShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}))
			_, err := c.List(context.Background())
			require.Error(t, err)
			assert.True(t, IsKind(err, tt.kind), "got %v", err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "list", apiErr.Op)
			assert.NotEmpty(t, apiErr.RequestID)
			if tt.message != "" {
				assert.Equal(t, tt.message, apiErr.Error())
			}
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).List(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTransport))
}

func TestClient_ContextCanceled(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":[]}`)
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.List(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_SearchEncodesTerm(t *testing.T) {
	var gotName, gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotName = r.URL.Query().Get("name")
		writeJSON(w, http.StatusOK, `{"success":true,"data":[{"id":7,"name":"Ann Lee","mobileNo":"1"}]}`)
	}))

	records, err := c.Search(context.Background(), "ann & co")
	require.NoError(t, err)
	assert.Equal(t, "/api/students/search", gotPath)
	assert.Equal(t, "ann & co", gotName)
	require.Len(t, records, 1)
	assert.Equal(t, "Ann Lee", records[0].Name)
}

func TestClient_SearchEnvelopeFallback(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":false}`)
	}))
	_, err := c.Search(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, "Search failed", err.Error())
}

func TestClient_Get(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr Kind
	}{
		{name: "raw record", body: `{"id":3,"name":"Cara","birthDate":"1999-12-01","mobileNo":"9"}`},
		{name: "enveloped record", body: `{"success":true,"message":"found","data":{"id":3,"name":"Cara","birthDate":"1999-12-01","mobileNo":"9"}}`},
		{name: "missing id", body: `{"name":"Cara"}`, wantErr: KindShape},
		{name: "enveloped null", body: `{"success":true,"data":null}`, wantErr: KindShape},
		{name: "array", body: `[1,2]`, wantErr: KindShape},
		{name: "enveloped failure", body: `{"success":false,"data":null,"message":"gone"}`, wantErr: KindEnvelope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/students/3", r.URL.Path)
				writeJSON(w, http.StatusOK, tt.body)
			}))
			rec, err := c.Get(context.Background(), 3)
			if tt.wantErr != 0 {
				require.Error(t, err)
				assert.True(t, IsKind(err, tt.wantErr), "got %v", err)
				var apiErr *Error
				require.ErrorAs(t, err, &apiErr)
				assert.NotEmpty(t, apiErr.RequestID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(3), rec.ID)
			assert.Equal(t, "Cara", rec.Name)
			assert.Equal(t, "1999-12-01", rec.BirthDate.String())
		})
	}
}

func TestClient_DecodeFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	var sentID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sentID = r.Header.Get(RequestIDHeader)
		writeJSON(w, http.StatusOK, `{"success":false,"message":"gone"}`)
	}))
	t.Cleanup(srv.Close)
	c := New(srv.URL+"/api/students", WithLogger(zap.New(core)))

	_, err := c.Get(context.Background(), 3)
	require.Error(t, err)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, sentID, apiErr.RequestID)

	failed := logs.FilterMessage("api request failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zap.WarnLevel, failed[0].Level)
	assert.Equal(t, sentID, failed[0].ContextMap()["request_id"])
	assert.Equal(t, "envelope", failed[0].ContextMap()["kind"])
	assert.Empty(t, logs.FilterMessage("api request").All())
}

func TestClient_GetNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"success":false,"message":"Student not found with id : '3'"}`)
	}))
	_, err := c.Get(context.Background(), 3)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindStatus, apiErr.Kind)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Contains(t, apiErr.Message, "Student not found")
}

func TestClient_CreateSendsPayload(t *testing.T) {
	var got map[string]interface{}
	var contentType string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/students", r.URL.Path)
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusCreated, `{"id":11,"name":"Dev","birthDate":"2002-02-02","mobileNo":"7"}`)
	}))

	rec, err := c.Create(context.Background(), student.Payload{
		Name:      "Dev",
		BirthDate: student.NewDate(2002, 2, 2),
		MobileNo:  "7",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), rec.ID)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "Dev", got["name"])
	assert.Equal(t, "2002-02-02", got["birthDate"])
	assert.Equal(t, "7", got["mobileNo"])
	photo, ok := got["photoBase64"]
	assert.True(t, ok)
	assert.Nil(t, photo)
}

func TestClient_UpdateUsesPut(t *testing.T) {
	var gotMethod, gotPath string
	photo := "QUJD"
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		var body student.Payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotNil(t, body.PhotoBase64)
		assert.Equal(t, "QUJD", *body.PhotoBase64)
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"id":4,"name":"Eve","mobileNo":"1"}}`)
	}))

	rec, err := c.Update(context.Background(), 4, student.Payload{Name: "Eve", MobileNo: "1", PhotoBase64: &photo})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/students/4", gotPath)
	assert.Equal(t, int64(4), rec.ID)
}

func TestClient_CreateEmptyBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	rec, err := c.Create(context.Background(), student.Payload{Name: "x"})
	require.NoError(t, err)
	assert.Zero(t, rec.ID)
}

func TestClient_Delete(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "no content", status: http.StatusNoContent},
		{name: "ok", status: http.StatusOK},
		{name: "not found", status: http.StatusNotFound, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod, gotPath string
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotPath = r.URL.Path
				w.WriteHeader(tt.status)
			}))
			err := c.Delete(context.Background(), 9)
			assert.Equal(t, http.MethodDelete, gotMethod)
			assert.Equal(t, "/api/students/9", gotPath)
			if tt.wantErr {
				assert.True(t, IsKind(err, KindStatus))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "<nil>", (*Error)(nil).Error())
	assert.Equal(t, "boom: EOF", (&Error{Err: io.EOF, Message: "boom"}).Error())
	assert.Equal(t, "EOF", (&Error{Err: io.EOF}).Error())
	assert.Equal(t, "transport", KindTransport.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
