package member

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"dqticket_back_end/internal/models"
	"dqticket_back_end/internal/repository"
	"dqticket_back_end/internal/utils"
)

// MemberStore - accès aux membres consommé par les handlers d'authentification
type MemberStore interface {
	Create(ctx context.Context, member *models.Member) error
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
}

type Handler struct {
	members MemberStore
}

func NewHandler(members MemberStore) *Handler {
	return &Handler{members: members}
}

// Register - Créer un compte membre rattaché à un venue.
// Le mot de passe n'est stocké que hashé (bcrypt, coût 10).
func (h *Handler) Register(c *gin.Context) {
	var input struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required"`
		VenueID   string `json:"venueId" binding:"required"`
		IsBroker  bool   `json:"isBroker"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	venueUUID, err := uuid.Parse(input.VenueID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID venue invalide"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création membre"})
		return
	}

	now := time.Now().UTC()
	member := models.Member{
		ID:        gocql.TimeUUID(),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  hashedPassword,
		VenueID:   gocql.UUID(venueUUID),
		IsBroker:  input.IsBroker,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.members.Create(c.Request.Context(), &member); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
			return
		}
		log.Printf("❌ Erreur création membre: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création membre"})
		return
	}

	token, err := utils.GenerateMemberJWT(member)
	if err != nil {
		log.Printf("❌ Erreur génération token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création membre"})
		return
	}

	log.Printf("✅ Membre créé: %s", member.Email)
	c.JSON(http.StatusCreated, gin.H{
		"token":  token,
		"member": member,
	})
}

// Login - Authentifier un membre par email et mot de passe
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.members.GetByEmail(c.Request.Context(), input.Email)
	if err != nil || !utils.MatchPassword(input.Password, member.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	token, err := utils.GenerateMemberJWT(*member)
	if err != nil {
		log.Printf("❌ Erreur génération token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"member": member,
	})
}
