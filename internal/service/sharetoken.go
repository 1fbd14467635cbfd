package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"anoa.com/creatordashboard/pkg/apperror"
	"github.com/google/uuid"
)

// ShareTokenIssuer mints and verifies the opaque tracking tokens attached to
// shared-content links. The token embeds (userID, contentID, timestamp) and
// is HMAC-SHA256 signed; it carries attribution data only and grants no
// authorization.
type ShareTokenIssuer struct {
	secret []byte
}

func NewShareTokenIssuer(secret string) *ShareTokenIssuer {
	return &ShareTokenIssuer{secret: []byte(secret)}
}

type ShareClaims struct {
	UserID    uuid.UUID
	ContentID uuid.UUID
	SharedAt  time.Time
}

func (i *ShareTokenIssuer) sign(payload string) string {
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Issue builds the token: base64(userID|contentID|unix).signature
func (i *ShareTokenIssuer) Issue(userID, contentID uuid.UUID, sharedAt time.Time) string {
	payload := fmt.Sprintf("%s|%s|%d", userID, contentID, sharedAt.Unix())
	encoded := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return encoded + "." + i.sign(payload)
}

// Verify parses the token and checks its signature. Tampered or malformed
// tokens fail with ErrInvalidInput.
func (i *ShareTokenIssuer) Verify(token string) (*ShareClaims, error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return nil, apperror.ErrInvalidInput
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, apperror.ErrInvalidInput
	}
	payload := string(payloadBytes)

	expected := i.sign(payload)
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return nil, apperror.ErrInvalidInput
	}

	fields := strings.Split(payload, "|")
	if len(fields) != 3 {
		return nil, apperror.ErrInvalidInput
	}

	userID, err := uuid.Parse(fields[0])
	if err != nil {
		return nil, apperror.ErrInvalidInput
	}
	contentID, err := uuid.Parse(fields[1])
	if err != nil {
		return nil, apperror.ErrInvalidInput
	}
	unix, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return nil, apperror.ErrInvalidInput
	}

	return &ShareClaims{
		UserID:    userID,
		ContentID: contentID,
		SharedAt:  time.Unix(unix, 0).UTC(),
	}, nil
}
