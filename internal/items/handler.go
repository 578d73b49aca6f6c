package items

import (
	"net/http"

	"github.com/learnenglishzero/backend/internal/models"
	"github.com/learnenglishzero/backend/internal/utils"
)

// Item is a placeholder catalogue entry.
type Item struct {
	Name string `json:"name"`
}

var catalogue = []Item{
	{Name: "Item Foo"},
	{Name: "Item Bar"},
}

// Handler serves the /items group.
type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, catalogue)
}

func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: models.MsgHello})
}
