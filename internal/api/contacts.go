package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MimoJanra/SitePulse/internal/models"
)

var e164Regex = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

func validateContact(c models.Contact) (models.Contact, error) {
	c.Address = strings.TrimSpace(c.Address)
	c.Label = strings.TrimSpace(c.Label)
	if c.Address == "" {
		return c, errors.New("address required")
	}

	switch c.Type {
	case models.ContactEmail:
		addr, err := mail.ParseAddress(c.Address)
		if err != nil {
			return c, errors.New("invalid email address")
		}
		c.Address = addr.Address
	case models.ContactSMS:
		if !e164Regex.MatchString(c.Address) {
			return c, errors.New("phone number must be in E.164 format")
		}
	case models.ContactSlack:
		u, err := url.Parse(c.Address)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			return c, errors.New("slack webhook must be an https url")
		}
	default:
		return c, errors.New("type must be email, slack or sms")
	}
	return c, nil
}

// GetContacts godoc
// @Summary      List alert contacts
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Contact
// @Router       /api/contacts [get]
func (s *Server) GetContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.ContactRepo.GetAll(r.Context())
	if err != nil {
		s.log().WithError(err).Error("Failed to list contacts")
		writeError(w, http.StatusInternalServerError, "failed to get contacts")
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

type createContactRequest struct {
	Type    models.ContactType `json:"type" example:"email"`
	Address string             `json:"address" example:"oncall@example.com"`
	Label   string             `json:"label" example:"On-call"`
}

// CreateContact godoc
// @Summary      Add an alert contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        contact  body      createContactRequest  true  "Contact"
// @Success      201      {object}  models.Contact
// @Failure      400      {object}  errorResponse
// @Router       /api/contacts [post]
func (s *Server) CreateContact(w http.ResponseWriter, r *http.Request) {
	var body createContactRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contact, err := validateContact(models.Contact{Type: body.Type, Address: body.Address, Label: body.Label})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contact, err = s.ContactRepo.Add(r.Context(), contact)
	if err != nil {
		s.log().WithError(err).Error("Failed to add contact")
		writeError(w, http.StatusInternalServerError, "failed to add contact")
		return
	}
	writeJSON(w, http.StatusCreated, contact)
}

// DeleteContact godoc
// @Summary      Remove an alert contact
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contact ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  errorResponse
// @Router       /api/contacts/{id} [delete]
func (s *Server) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ok, err := s.ContactRepo.Delete(r.Context(), id)
	if err != nil {
		s.log().WithError(err).WithField("contact_id", id).Error("Failed to delete contact")
		writeError(w, http.StatusInternalServerError, "failed to delete contact")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "contact not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
