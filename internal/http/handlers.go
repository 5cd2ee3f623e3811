package http

import (
	"net/http"

	"budgetai/internal/core"
)

func (s *Server) handleUploadCSV(w http.ResponseWriter, r *http.Request) {
	userID, err := s.deps.Identity.UserID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.deps.UploadMaxBytes)
	if err := r.ParseMultipartForm(s.deps.UploadMaxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file part in the request")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected for uploading")
		return
	}

	result, err := s.deps.Ingest.ProcessCSV(r.Context(), userID, file)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := s.deps.Identity.UserID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	txns, err := s.deps.Query.All(r.Context(), userID)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) handleTransactionsByCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := s.deps.Identity.UserID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	var body struct {
		Category string `json:"category"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeFailure(w, r, err)
		return
	}

	txns, err := s.deps.Query.ByCategory(r.Context(), userID, body.Category)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) handleTransactionsByAmount(w http.ResponseWriter, r *http.Request) {
	userID, err := s.deps.Identity.UserID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	var body struct {
		MinAmount *core.Money `json:"min_amount"`
		MaxAmount *core.Money `json:"max_amount"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeFailure(w, r, err)
		return
	}

	txns, err := s.deps.Query.ByAmountRange(r.Context(), userID, body.MinAmount, body.MaxAmount)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) handleTransactionsByDate(w http.ResponseWriter, r *http.Request) {
	userID, err := s.deps.Identity.UserID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	var body struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeFailure(w, r, err)
		return
	}

	txns, err := s.deps.Query.ByDateRange(r.Context(), userID, body.StartDate, body.EndDate)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := s.deps.Identity.UserID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	categories, err := s.deps.Query.Categories(r.Context(), userID)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleTransactionTotals(w http.ResponseWriter, r *http.Request) {
	userID, err := s.deps.Identity.UserID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	totals, err := s.deps.Report.TransactionTotals(r.Context(), userID)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleTransactionRange(w http.ResponseWriter, r *http.Request) {
	userID, err := s.deps.Identity.UserID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	labels, err := s.deps.Report.TransactionRange(r.Context(), userID)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

func (s *Server) handleChatPrompt(w http.ResponseWriter, r *http.Request) {
	if _, err := s.deps.Identity.UserID(r); err != nil {
		writeFailure(w, r, err)
		return
	}
	if s.deps.Chat == nil {
		writeError(w, http.StatusServiceUnavailable, "Chat is not configured")
		return
	}

	var body struct {
		Query string `json:"query"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeFailure(w, r, err)
		return
	}
	if body.Query == "" {
		writeError(w, http.StatusBadRequest, "Query field is required")
		return
	}

	reply, err := s.deps.Chat.Prompt(r.Context(), body.Query)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"user_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeFailure(w, r, err)
		return
	}
	if body.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id field is required")
		return
	}

	s.deps.Identity.Issue(w, body.UserID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged in"})
}

func (s *Server) handleSignout(w http.ResponseWriter, r *http.Request) {
	s.deps.Identity.Clear(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Signed out"})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := s.deps.Identity.UserID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	deleted, err := s.deps.Deleter.DeleteByUser(r.Context(), userID)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	s.deps.Identity.Clear(w)
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
