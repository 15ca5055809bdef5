package auth

import (
	"context"
	"errors"
	"time"

	"github.com/alexgasconn/RacePlanner/internal/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenTTL = 24 * time.Hour

type Service struct {
	secret []byte
	db     db.Querier
}

type Claims struct {
	AthleteID string `json:"athlete_id"`
	jwt.RegisteredClaims
}

func NewService(secret string, querier db.Querier) *Service {
	return &Service{
		secret: []byte(secret),
		db:     querier,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (Athlete, TokenResponse, error) {
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return Athlete{}, TokenResponse{}, errors.New("email, username, password required")
	}
	units := req.PreferredUnits
	if units == "" {
		units = "metric"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Athlete{}, TokenResponse{}, err
	}

	athlete := Athlete{
		ID:             uuid.NewString(),
		Email:          req.Email,
		Username:       req.Username,
		PasswordHash:   string(hash),
		PreferredUnits: units,
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO athletes (id, email, username, password_hash, preferred_units)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, athlete.ID, athlete.Email, athlete.Username, athlete.PasswordHash, athlete.PreferredUnits)
	if err := row.Scan(&athlete.CreatedAt); err != nil {
		return Athlete{}, TokenResponse{}, err
	}

	tokens, err := s.issueToken(athlete.ID)
	if err != nil {
		return Athlete{}, TokenResponse{}, err
	}
	return athlete, tokens, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (Athlete, TokenResponse, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, username, password_hash, preferred_units, created_at
		FROM athletes WHERE email = $1
	`, req.Email)

	var athlete Athlete
	if err := row.Scan(&athlete.ID, &athlete.Email, &athlete.Username, &athlete.PasswordHash, &athlete.PreferredUnits, &athlete.CreatedAt); err != nil {
		return Athlete{}, TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(athlete.PasswordHash), []byte(req.Password)); err != nil {
		return Athlete{}, TokenResponse{}, errors.New("invalid credentials")
	}

	tokens, err := s.issueToken(athlete.ID)
	if err != nil {
		return Athlete{}, TokenResponse{}, err
	}
	return athlete, tokens, nil
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	return claims.AthleteID, nil
}

func (s *Service) issueToken(athleteID string) (TokenResponse, error) {
	claims := Claims{
		AthleteID: athleteID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return TokenResponse{}, err
	}
	return TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}
