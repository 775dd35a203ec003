// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/smart-voting/auth"
	"github.com/danielhkuo/smart-voting/ledger"
	"github.com/danielhkuo/smart-voting/models"
	"github.com/danielhkuo/smart-voting/registry"
	"github.com/danielhkuo/smart-voting/testutil"
)

func newTestAdminHandler(t *testing.T) (*AdminHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	checker := testutil.NewTestChecker(t)
	handler := NewAdminHandler(
		registry.New(db, checker),
		ledger.New(db, checker, nil),
		checker,
		testutil.NewTestSessions(t),
		testutil.GetTestConfig(),
	)
	return handler, db
}

func boolPtr(b bool) *bool { return &b }

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAdminLogin(t *testing.T) {
	handler, _ := newTestAdminHandler(t)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{"valid credentials", models.AdminLoginRequest{Username: testutil.TestAdminUsername, Password: testutil.TestAdminPassword}, http.StatusOK},
		{"wrong password", models.AdminLoginRequest{Username: testutil.TestAdminUsername, Password: "admin123"}, http.StatusUnauthorized},
		{"wrong username", models.AdminLoginRequest{Username: "root", Password: testutil.TestAdminPassword}, http.StatusUnauthorized},
		{"empty credentials", models.AdminLoginRequest{}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/admin/login", tt.requestBody, map[string]string{"X-Forwarded-For": "203.0.113.7"})
			w := httptest.NewRecorder()

			handler.Login(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			cookie := findCookie(w, auth.SessionCookie)
			if tt.expectedStatus != http.StatusOK {
				if cookie != nil {
					t.Error("Expected no session cookie on failed login")
				}
				return
			}

			var resp models.AdminLoginResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Token == "" {
				t.Fatal("Expected a session token")
			}
			if cookie == nil || cookie.Value != resp.Token {
				t.Fatal("Expected session cookie carrying the token")
			}
			if want := 3600; cookie.MaxAge != want {
				t.Errorf("Expected cookie max age %d, got %d", want, cookie.MaxAge)
			}
			if !cookie.HttpOnly {
				t.Error("Expected session cookie to be HttpOnly")
			}

			claims, err := testutil.NewTestSessions(t).Parse(resp.Token)
			if err != nil {
				t.Fatalf("Expected token to validate: %v", err)
			}
			if claims.Username != testutil.TestAdminUsername {
				t.Errorf("Expected username '%s', got '%s'", testutil.TestAdminUsername, claims.Username)
			}
		})
	}
}

func TestAdminLogout(t *testing.T) {
	handler, _ := newTestAdminHandler(t)

	req := httptest.NewRequest("POST", "/admin/logout", nil)
	w := httptest.NewRecorder()
	handler.Logout(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	cookie := findCookie(w, auth.SessionCookie)
	if cookie == nil {
		t.Fatal("Expected session cookie to be cleared")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("Expected expired empty cookie, got value=%q max_age=%d", cookie.Value, cookie.MaxAge)
	}
}

func TestCreateVoter(t *testing.T) {
	handler, _ := newTestAdminHandler(t)

	fields := models.VoterFields{
		VoterID:     "V100",
		Name:        "Alice",
		DOB:         "1990-04-01",
		Phone:       "+15550100",
		Fingerprint: "V100",
	}

	req := testutil.MakeRequest("POST", "/admin/voters", fields, nil)
	w := httptest.NewRecorder()
	handler.CreateVoter(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.Voter
	testutil.AssertJSON(t, w, &created)
	if created.VoterID != "V100" || created.Name != "Alice" {
		t.Errorf("Unexpected voter: %+v", created)
	}
	if created.HasVoted {
		t.Error("Expected new voter to not have voted")
	}

	t.Run("duplicate identifier", func(t *testing.T) {
		dup := fields
		dup.Name = "Mallory"
		req := testutil.MakeRequest("POST", "/admin/voters", dup, nil)
		w := httptest.NewRecorder()
		handler.CreateVoter(w, req)

		testutil.AssertStatus(t, w, http.StatusConflict)

		req = httptest.NewRequest("GET", "/admin/voters/V100", nil)
		req.SetPathValue("id", "V100")
		w = httptest.NewRecorder()
		handler.GetVoter(w, req)

		var stored models.Voter
		testutil.AssertJSON(t, w, &stored)
		if stored.Name != "Alice" {
			t.Errorf("Expected existing record unchanged, got name '%s'", stored.Name)
		}
	})

	t.Run("missing identifier", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/admin/voters", models.VoterFields{Name: "Nobody"}, nil)
		w := httptest.NewRecorder()
		handler.CreateVoter(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestListAndGetVoters(t *testing.T) {
	handler, db := newTestAdminHandler(t)

	req := httptest.NewRequest("GET", "/admin/voters", nil)
	w := httptest.NewRecorder()
	handler.ListVoters(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if body := w.Body.String(); body != "[]\n" {
		t.Errorf("Expected empty JSON array, got %q", body)
	}

	testutil.CreateTestVoter(t, db, "A1", "1990-01-01", "")
	testutil.CreateTestVoter(t, db, "A2", "1991-01-01", "")

	req = httptest.NewRequest("GET", "/admin/voters", nil)
	w = httptest.NewRecorder()
	handler.ListVoters(w, req)

	var voters []models.Voter
	testutil.AssertJSON(t, w, &voters)
	if len(voters) != 2 {
		t.Fatalf("Expected 2 voters, got %d", len(voters))
	}

	tests := []struct {
		name           string
		voterID        string
		expectedStatus int
	}{
		{"existing voter", "A2", http.StatusOK},
		{"unknown voter", "A9", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin/voters/"+tt.voterID, nil)
			req.SetPathValue("id", tt.voterID)
			w := httptest.NewRecorder()

			handler.GetVoter(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestUpdateVoter(t *testing.T) {
	handler, db := newTestAdminHandler(t)
	testutil.CreateTestVoter(t, db, "U1", "1990-01-01", "")

	tests := []struct {
		name           string
		voterID        string
		expectedStatus int
	}{
		{"existing voter", "U1", http.StatusOK},
		{"unknown voter", "U404", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := models.VoterFields{Name: "Updated", DOB: "1985-05-05", Phone: "+15550111", Fingerprint: "fp-new"}
			req := testutil.MakeRequest("PUT", "/admin/voters/"+tt.voterID, fields, nil)
			req.SetPathValue("id", tt.voterID)
			w := httptest.NewRecorder()

			handler.UpdateVoter(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var updated models.Voter
			testutil.AssertJSON(t, w, &updated)
			if updated.Name != "Updated" || updated.DOB != "1985-05-05" || updated.Fingerprint != "fp-new" {
				t.Errorf("Unexpected voter after update: %+v", updated)
			}
		})
	}
}

func TestDeleteVoter(t *testing.T) {
	handler, db := newTestAdminHandler(t)
	testutil.CreateTestVoter(t, db, "D1", "1990-01-01", "")
	testutil.CreateTestVote(t, db, "D1", "Candidate A")

	// Second delete of the same voter is still a success
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("DELETE", "/admin/voters/D1", nil)
		req.SetPathValue("id", "D1")
		w := httptest.NewRecorder()

		handler.DeleteVoter(w, req)

		testutil.AssertStatus(t, w, http.StatusNoContent)
		if w.Body.Len() != 0 {
			t.Errorf("Expected empty body, got %q", w.Body.String())
		}
	}

	var exists bool
	if err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM voter WHERE voter_id = $1)`, "D1").Scan(&exists); err != nil {
		t.Fatalf("Failed to query voter: %v", err)
	}
	if exists {
		t.Error("Expected voter to be deleted")
	}

	// The ledger keeps the vote
	if n := testutil.CountVotes(t, db, "D1"); n != 1 {
		t.Errorf("Expected vote to remain in ledger, got %d", n)
	}
}

func TestSetVotedStatus(t *testing.T) {
	handler, db := newTestAdminHandler(t)
	testutil.CreateTestVoter(t, db, "S1", "1990-01-01", "")

	tests := []struct {
		name           string
		voterID        string
		requestBody    models.VotedStatusRequest
		expectedStatus int
		expectedVoted  bool
	}{
		{"set voted", "S1", models.VotedStatusRequest{Password: testutil.TestAdminSecret, HasVoted: boolPtr(true)}, http.StatusOK, true},
		{"toggle back", "S1", models.VotedStatusRequest{Password: testutil.TestAdminSecret}, http.StatusOK, false},
		{"toggle again", "S1", models.VotedStatusRequest{Password: testutil.TestAdminSecret}, http.StatusOK, true},
		{"explicit clear", "S1", models.VotedStatusRequest{Password: testutil.TestAdminSecret, HasVoted: boolPtr(false)}, http.StatusOK, false},
		{"wrong secret", "S1", models.VotedStatusRequest{Password: "123456", HasVoted: boolPtr(true)}, http.StatusForbidden, false},
		{"wrong secret on toggle", "S1", models.VotedStatusRequest{Password: ""}, http.StatusForbidden, false},
		{"unknown voter", "S404", models.VotedStatusRequest{Password: testutil.TestAdminSecret, HasVoted: boolPtr(true)}, http.StatusNotFound, false},
		{"unknown voter toggle", "S404", models.VotedStatusRequest{Password: testutil.TestAdminSecret}, http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/admin/voters/"+tt.voterID+"/voted-status", tt.requestBody, nil)
			req.SetPathValue("id", tt.voterID)
			w := httptest.NewRecorder()

			handler.SetVotedStatus(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var resp models.VotedStatusResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.HasVoted != tt.expectedVoted {
					t.Errorf("Expected has_voted=%v in response, got %v", tt.expectedVoted, resp.HasVoted)
				}
			}

			if tt.voterID == "S1" {
				if got := testutil.HasVoted(t, db, "S1"); got != tt.expectedVoted {
					t.Errorf("Expected stored has_voted=%v, got %v", tt.expectedVoted, got)
				}
			}
		})
	}
}

func TestTally(t *testing.T) {
	handler, db := newTestAdminHandler(t)

	getTally := func(t *testing.T) models.TallyResponse {
		t.Helper()
		req := httptest.NewRequest("GET", "/admin/tally", nil)
		w := httptest.NewRecorder()
		handler.Tally(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.TallyResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}

	empty := getTally(t)
	if empty.Total != 0 || len(empty.Results) != 0 {
		t.Errorf("Expected empty tally, got %+v", empty)
	}
	if empty.Summary != "No votes cast yet" {
		t.Errorf("Unexpected summary: %q", empty.Summary)
	}

	testutil.CreateTestVoter(t, db, "T1", "1990-01-01", "")
	testutil.CreateTestVote(t, db, "T1", "Candidate A")

	one := getTally(t)
	if one.Summary != "1 vote cast for 1 candidate" {
		t.Errorf("Unexpected summary: %q", one.Summary)
	}

	for _, id := range []string{"T2", "T3"} {
		testutil.CreateTestVoter(t, db, id, "1990-01-01", "")
		testutil.CreateTestVote(t, db, id, "Candidate B")
	}

	resp := getTally(t)
	if resp.Total != 3 {
		t.Errorf("Expected total 3, got %d", resp.Total)
	}
	if len(resp.Results) != 2 || resp.Results[0].Candidate != "Candidate B" || resp.Results[0].Count != 2 {
		t.Errorf("Unexpected results: %+v", resp.Results)
	}
	if resp.Summary != "3 votes cast for 2 candidates" {
		t.Errorf("Unexpected summary: %q", resp.Summary)
	}
}

func TestTallySummaryLargeCounts(t *testing.T) {
	got := tallySummary(ledger.Tally{
		Results: make([]models.CandidateCount, 3),
		Total:   1234567,
	})
	if got != "1,234,567 votes cast for 3 candidates" {
		t.Errorf("Unexpected summary: %q", got)
	}
}

func TestListVotes(t *testing.T) {
	handler, db := newTestAdminHandler(t)
	testutil.CreateTestVoter(t, db, "LV1", "1990-01-01", "")
	voteID := testutil.CreateTestVote(t, db, "LV1", "Candidate C")

	req := httptest.NewRequest("GET", "/admin/votes", nil)
	w := httptest.NewRecorder()
	handler.ListVotes(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var votes []models.Vote
	testutil.AssertJSON(t, w, &votes)
	if len(votes) != 1 {
		t.Fatalf("Expected 1 vote, got %d", len(votes))
	}
	if votes[0].ID != voteID || votes[0].Candidate != "Candidate C" {
		t.Errorf("Unexpected vote: %+v", votes[0])
	}
}

func TestReset(t *testing.T) {
	handler, db := newTestAdminHandler(t)

	for _, id := range []string{"R1", "R2"} {
		testutil.CreateTestVoter(t, db, id, "1990-01-01", "")
		testutil.CreateTestVote(t, db, id, "Candidate A")
	}

	t.Run("wrong secret", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/admin/reset", models.ResetRequest{Password: "000000"}, nil)
		w := httptest.NewRecorder()
		handler.Reset(w, req)

		testutil.AssertStatus(t, w, http.StatusForbidden)
		if n := testutil.CountVotes(t, db, ""); n != 2 {
			t.Errorf("Expected votes untouched, got %d", n)
		}
	})

	t.Run("correct secret", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/admin/reset", models.ResetRequest{Password: testutil.TestAdminSecret}, nil)
		w := httptest.NewRecorder()
		handler.Reset(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		if n := testutil.CountVotes(t, db, ""); n != 0 {
			t.Errorf("Expected ledger cleared, got %d votes", n)
		}
		for _, id := range []string{"R1", "R2"} {
			if testutil.HasVoted(t, db, id) {
				t.Errorf("Expected has_voted cleared for %s", id)
			}
		}
	})
}
