package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/athletix/events-api/internal/models"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type ReceiptHandler struct {
	db *gorm.DB
}

func NewReceiptHandler(db *gorm.DB) *ReceiptHandler {
	return &ReceiptHandler{db: db}
}

// HandleDownloadReceipt serves the registration receipt as a text attachment.
func (h *ReceiptHandler) HandleDownloadReceipt(w http.ResponseWriter, r *http.Request) {
	regID, err := strconv.Atoi(chi.URLParam(r, "regID"))
	if err != nil {
		http.Error(w, "Receipt not found", http.StatusNotFound)
		return
	}

	var reg models.Registration
	if err := h.db.First(&reg, regID).Error; err != nil {
		http.Error(w, "Receipt not found", http.StatusNotFound)
		return
	}

	content := fmt.Sprintf("Receipt for %s %s\nEvent: %s\nAmount Paid: %s\n",
		reg.FirstName, reg.LastName, reg.EventName, reg.Amount)

	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("receipt_%d.txt", reg.ID)))
	w.Write([]byte(content))
}
