package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/academicrecords/internal/bootstrap"
	"anoa.com/academicrecords/internal/config"
	classRepo "anoa.com/academicrecords/internal/modules/class/repository"
	gradingRepo "anoa.com/academicrecords/internal/modules/grading/repository"
	moduleRepo "anoa.com/academicrecords/internal/modules/module/repository"
	searchService "anoa.com/academicrecords/internal/modules/search/service"
	userRepo "anoa.com/academicrecords/internal/modules/user/repository"
	"anoa.com/academicrecords/pkg/flatfile"
	"github.com/gin-gonic/gin"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := flatfile.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	err = bootstrap.SeedIfEmpty(context.Background(), bootstrap.Repositories{
		Users:   userRepo.NewUserRepository(store),
		Modules: moduleRepo.NewModuleRepository(store),
		Classes: classRepo.NewClassRepository(store),
		Grading: gradingRepo.NewGradingRepository(store),
	})
	if err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		AllowedOrigins:   "http://localhost:3000",
		JWTSecret:        "test-secret",
		JWTTTL:           time.Hour,
		ReportMinResults: 5,
		LoginMaxAttempts: 5,
		LoginLockout:     time.Minute,
	}
	return NewServer(cfg, store, nil, searchService.NewLocalSearchService()).Handler()
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, h http.Handler, userID, password string) string {
	t.Helper()
	w := do(t, h, http.MethodPost, "/api/auth/login", "", gin.H{"user_id": userID, "password": password})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", userID, w.Code, w.Body.String())
	}
	var res struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	return res.AccessToken
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)
	if w := do(t, h, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRoleGroups(t *testing.T) {
	h := newTestServer(t)

	if w := do(t, h, http.MethodGet, "/api/admin/stats", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	admin := login(t, h, "AD00001", "AD0000101011990")
	student := login(t, h, "TP30001", "TP3000101012000")

	if w := do(t, h, http.MethodGet, "/api/admin/stats", admin, nil); w.Code != http.StatusOK {
		t.Fatalf("admin stats: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(t, h, http.MethodGet, "/api/admin/stats", student, nil); w.Code != http.StatusForbidden {
		t.Fatalf("student on admin route: expected 403, got %d", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/api/lecturer/modules", student, nil); w.Code != http.StatusForbidden {
		t.Fatalf("student on lecturer route: expected 403, got %d", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/api/modules", student, nil); w.Code != http.StatusOK {
		t.Fatalf("shared route: expected 200, got %d", w.Code)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	h := newTestServer(t)
	w := do(t, h, http.MethodPost, "/api/auth/login", "", gin.H{"user_id": "AD00001", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestStudentEnrollsOnce(t *testing.T) {
	h := newTestServer(t)
	student := login(t, h, "TP30001", "TP3000101012000")

	if w := do(t, h, http.MethodPost, "/api/student/enrollments", student, gin.H{"class_id": "CLS001"}); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(t, h, http.MethodPost, "/api/student/enrollments", student, gin.H{"class_id": "CLS001"}); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate enrollment, got %d", w.Code)
	}
	if w := do(t, h, http.MethodPost, "/api/student/enrollments", student, gin.H{}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on missing class, got %d", w.Code)
	}
}

func TestLecturerRecordsMarks(t *testing.T) {
	h := newTestServer(t)
	lecturer := login(t, h, "LC20001", "LC2000101011980")

	w := do(t, h, http.MethodPost, "/api/lecturer/assessments", lecturer, gin.H{
		"module_code": "MOD001", "type": "Exam", "title": "Final", "max_marks": 100,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create assessment: %d %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodPost, "/api/lecturer/results", lecturer, gin.H{
		"assessment_id": "ASS001", "student_id": "TP30001", "marks": 101,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for marks above max, got %d", w.Code)
	}

	w = do(t, h, http.MethodPost, "/api/lecturer/results", lecturer, gin.H{
		"assessment_id": "ASS001", "student_id": "TP30001", "marks": 0,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for zero marks, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLeaderReports(t *testing.T) {
	h := newTestServer(t)
	leader := login(t, h, "AL10001", "AL1000101011985")

	w := do(t, h, http.MethodGet, "/api/leader/reports/MOD001", leader, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("own module: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var report struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.Status != "no_assessments" {
		t.Fatalf("expected no_assessments, got %q", report.Status)
	}

	if w := do(t, h, http.MethodGet, "/api/leader/reports/MOD004", leader, nil); w.Code != http.StatusForbidden {
		t.Fatalf("another leader's module: expected 403, got %d", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/api/leader/reports/MOD404", leader, nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown module: expected 404, got %d", w.Code)
	}
}

func TestLecturerRoster(t *testing.T) {
	h := newTestServer(t)
	lecturer := login(t, h, "LC20001", "LC2000101011980")
	student := login(t, h, "TP30002", "TP3000201012000")

	if w := do(t, h, http.MethodPost, "/api/student/enrollments", student, gin.H{"class_id": "CLS001"}); w.Code != http.StatusCreated {
		t.Fatalf("enroll: %d %s", w.Code, w.Body.String())
	}
	if w := do(t, h, http.MethodPost, "/api/lecturer/assessments", lecturer, gin.H{
		"module_code": "MOD001", "type": "Quiz", "title": "Quiz 1", "max_marks": 20,
	}); w.Code != http.StatusCreated {
		t.Fatalf("create assessment: %d %s", w.Code, w.Body.String())
	}
	if w := do(t, h, http.MethodPost, "/api/lecturer/results", lecturer, gin.H{
		"assessment_id": "ASS001", "student_id": "TP30001", "marks": 15,
	}); w.Code != http.StatusCreated {
		t.Fatalf("record: %d %s", w.Code, w.Body.String())
	}

	w := do(t, h, http.MethodGet, "/api/lecturer/assessments/ASS001/roster", lecturer, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("roster: %d %s", w.Code, w.Body.String())
	}
	var res struct {
		Data []struct {
			StudentID string `json:"student_id"`
			Status    string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Data) != 2 {
		t.Fatalf("expected 2 roster rows, got %+v", res.Data)
	}
	if res.Data[0].StudentID != "TP30001" || res.Data[0].Status != "Graded" {
		t.Fatalf("unexpected first row %+v", res.Data[0])
	}
	if res.Data[1].StudentID != "TP30002" || res.Data[1].Status != "Pending" {
		t.Fatalf("unexpected second row %+v", res.Data[1])
	}

	other := login(t, h, "LC20004", "LC2000401011980")
	if w := do(t, h, http.MethodGet, "/api/lecturer/assessments/ASS001/roster", other, nil); w.Code != http.StatusForbidden {
		t.Fatalf("other lecturer: expected 403, got %d", w.Code)
	}
}

func TestAdminReplacesGradeScale(t *testing.T) {
	h := newTestServer(t)
	admin := login(t, h, "AD00001", "AD0000101011990")

	w := do(t, h, http.MethodPut, "/api/admin/grading", admin, gin.H{"bands": []gin.H{
		{"grade": "A", "min_marks": 90, "max_marks": 100},
	}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("scale with gaps: expected 400, got %d", w.Code)
	}

	if w := do(t, h, http.MethodDelete, "/api/admin/grading/F", admin, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("delete opening a gap: expected 400, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodPut, "/api/admin/grading", admin, gin.H{"bands": []gin.H{
		{"grade": "P", "min_marks": 50, "max_marks": 100},
		{"grade": "F", "min_marks": 0, "max_marks": 49},
	}})
	if w.Code != http.StatusOK {
		t.Fatalf("replace: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodGet, "/api/grading", admin, nil)
	var scale struct {
		Bands []struct {
			Grade string `json:"grade"`
		} `json:"bands"`
		Gaps []any `json:"gaps"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &scale); err != nil {
		t.Fatal(err)
	}
	if len(scale.Bands) != 2 || scale.Bands[0].Grade != "P" || len(scale.Gaps) != 0 {
		t.Fatalf("unexpected scale %+v", scale)
	}
}
