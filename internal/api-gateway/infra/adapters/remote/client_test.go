package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/allstar-electrical/workorders/internal/api-gateway/core/domain/entity"
	"github.com/allstar-electrical/workorders/internal/api-gateway/core/ports"
	"github.com/allstar-electrical/workorders/internal/pkg/interceptors"
	"github.com/allstar-electrical/workorders/internal/workorder/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second)
}

func TestClient_CreateWorkOrder(t *testing.T) {
	var (
		gotFolder string
		gotDoc    map[string]any
		gotPDF    string
		gotReqID  string
	)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /create-workorder/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFolder = r.FormValue("folder_name")
		gotReqID = r.Header.Get("x-request-id")

		f, hdr, err := r.FormFile("json_file")
		require.NoError(t, err)
		assert.Equal(t, "20240115_77.json", hdr.Filename)
		require.NoError(t, json.NewDecoder(f).Decode(&gotDoc))

		pdf, hdr, err := r.FormFile("pdf_file")
		require.NoError(t, err)
		assert.Equal(t, "workorder.pdf", hdr.Filename)
		b, _ := io.ReadAll(pdf)
		gotPDF = string(b)

		_ = json.NewEncoder(w).Encode(map[string]string{"message": "workorder files uploaded", "folder": gotFolder})
	})
	c := newTestClient(t, mux)

	ctx := interceptors.WithRequestMetadata(context.Background(), "req-42", "idem-42")
	wo := &domain.WorkOrder{
		Technician:      "Vidy",
		WorkOrderNumber: "77",
		Week:            "54",
		TotalAfterTax:   "22.60",
		Parts:           []domain.Part{{Name: "breaker", UnitPrice: "10.00", Quantity: "2", TotalPrice: "20.00"}},
		FolderName:      "20240115_77",
	}
	require.NoError(t, c.CreateWorkOrder(ctx, wo))

	assert.Equal(t, "20240115_77", gotFolder)
	assert.Equal(t, "req-42", gotReqID)
	assert.Equal(t, "Vidy", gotDoc["technician"])
	assert.Equal(t, "54", gotDoc["week"])
	assert.Equal(t, "22.60", gotDoc["totalAfterTax"])
	assert.NotContains(t, gotDoc, "folder_name")
	assert.True(t, strings.HasPrefix(gotPDF, "%PDF-"))
	// The caller's struct keeps its folder.
	assert.Equal(t, "20240115_77", wo.FolderName)
}

func TestClient_CreateWorkOrderRequiresFolder(t *testing.T) {
	c := NewClient("http://unused", time.Second)
	assert.Error(t, c.CreateWorkOrder(context.Background(), &domain.WorkOrder{}))
	assert.Error(t, c.UpdateWorkOrder(context.Background(), &domain.WorkOrder{}))
}

func TestClient_UpdateWorkOrder(t *testing.T) {
	var gotDoc domain.WorkOrder
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /workorder/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "20240115_77", r.FormValue("folder_name"))
		f, _, err := r.FormFile("updated_json")
		require.NoError(t, err)
		require.NoError(t, json.NewDecoder(f).Decode(&gotDoc))
		_, _ = w.Write([]byte(`{"message":"Workorder JSON successfully updated"}`))
	})
	c := newTestClient(t, mux)

	err := c.UpdateWorkOrder(context.Background(), &domain.WorkOrder{FolderName: "20240115_77", JobStatus: "Job Complete"})
	require.NoError(t, err)
	assert.Equal(t, "Job Complete", gotDoc.JobStatus)
}

func TestClient_GetWorkOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /workorder/{folder}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("folder") != "20240115_77" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Workorder not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"technician":"Subas","week":"54","parts":[{"name":"wire","unit_price":"0.45","quantity":"100","total_price":"45.00"}]}`))
	})
	c := newTestClient(t, mux)

	wo, err := c.GetWorkOrder(context.Background(), "20240115_77")
	require.NoError(t, err)
	assert.Equal(t, "Subas", wo.Technician)
	assert.Equal(t, "20240115_77", wo.FolderName)
	require.Len(t, wo.Parts, 1)
	assert.Equal(t, "45.00", wo.Parts[0].TotalPrice)

	_, err = c.GetWorkOrder(context.Background(), "20240115_78")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrNotFound))
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Contains(t, se.Body, "Workorder not found")
}

func TestClient_ListAndSearch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /workorders", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"workorders":["20240115_77","album"]}`))
	})
	mux.HandleFunc("GET /search-workorders/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "acme plaza", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"matches":[{"folder":"20240115_77","customer":"Acme Plaza","site_address":"N/A","po_number":"N/A","site_contact":"N/A"}]}`))
	})
	c := newTestClient(t, mux)

	folders, err := c.ListFolders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"20240115_77", "album"}, folders)
	require.NoError(t, c.Ping(context.Background()))

	matches, err := c.SearchWorkOrders(context.Background(), "acme plaza")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Acme Plaza", matches[0].Customer)
}

func TestClient_Media(t *testing.T) {
	var uploaded []string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload-images/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "20240115_77", r.FormValue("folder_name"))
		for _, fh := range r.MultipartForm.File["files"] {
			uploaded = append(uploaded, fh.Filename+"|"+fh.Header.Get("Content-Type"))
		}
		_, _ = w.Write([]byte(`{"message":"Images uploaded","files":["panel.jpg","walkthrough.mov"]}`))
	})
	mux.HandleFunc("GET /list-Images", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "20240115_77", r.URL.Query().Get("folder_name"))
		_, _ = w.Write([]byte(`{"media":["/media/20240115_77/panel.jpg","/media/20240115_77/walkthrough.mov"]}`))
	})
	mux.HandleFunc("DELETE /delete-Image", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("filename") != "panel.jpg" {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	names, err := c.UploadMedia(ctx, "20240115_77", []entity.MediaFile{
		{Filename: "panel.jpg", Data: []byte("jpg")},
		{Filename: "walkthrough.mov", ContentType: "video/quicktime", Data: []byte("mov")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"panel.jpg", "walkthrough.mov"}, names)
	assert.Equal(t, []string{"panel.jpg|image/jpeg", "walkthrough.mov|video/quicktime"}, uploaded)

	none, err := c.UploadMedia(ctx, "20240115_77", nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	items, err := c.ListMedia(ctx, "20240115_77")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, entity.MediaVideo, items[1].Kind)

	require.NoError(t, c.DeleteMedia(ctx, "20240115_77", "panel.jpg"))
	assert.ErrorIs(t, c.DeleteMedia(ctx, "20240115_77", "ghost.jpg"), ports.ErrNotFound)
}

func TestClient_Catalog(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /parts/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "breaker", r.URL.Query().Get("part_name"))
		_, _ = w.Write([]byte(`[{"part_id":1,"part_name":"15A breaker","part_number":"QO115","unit_cost":8.1,"unit_price":19.99,"part_pic":null}]`))
	})
	mux.HandleFunc("GET /travel-time/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"location":"Brampton","travel_time_hours":1.5}]`))
	})
	c := newTestClient(t, mux)

	parts, err := c.SearchParts(context.Background(), "breaker")
	require.NoError(t, err)
	require.Len(t, parts, 1)
	require.NotNil(t, parts[0].UnitPrice)
	assert.Equal(t, 19.99, *parts[0].UnitPrice)
	assert.Nil(t, parts[0].PartPic)

	travel, err := c.SearchTravel(context.Background(), "bram")
	require.NoError(t, err)
	assert.Equal(t, []entity.TravelTime{{Location: "Brampton", TravelTimeHours: 1.5}}, travel)
}

func TestClient_ServerErrors(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"disk full"}`, http.StatusInternalServerError)
	}))

	err := c.DeleteWorkOrder(context.Background(), "20240115_77")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.False(t, errors.Is(err, ports.ErrNotFound))
	assert.Contains(t, err.Error(), "disk full")
}

func TestClient_MalformedJSON(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"workorders":`))
	}))
	_, err := c.ListFolders(context.Background())
	assert.ErrorContains(t, err, "decode")
}
