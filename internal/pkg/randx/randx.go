/*
Package randx provides functions for generating cryptographically secure random identifiers.

It is primarily used to generate short Base62 encoded room ids and standard UUID user
and message ids.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// RoomIDLength is the fixed length of a generated room id. Eight Base62 characters
	// give 62^8 possible ids, so collisions are negligible at room-count scale.
	RoomIDLength = 8
)

// RoomID generates a Base62 encoded room id using a cryptographically secure random
// number generator (crypto/rand). It returns a string of length RoomIDLength and any
// error encountered.
func RoomID() (string, error) {
	result := make([]byte, RoomIDLength)

	for i := 0; i < RoomIDLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for room id: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// UserID generates a standard UUID v4 string to serve as a globally unique user identifier.
func UserID() string {
	return uuid.New().String()
}

// MessageID generates a standard UUID v4 string to serve as a unique identifier for an event envelope.
func MessageID() string {
	return uuid.New().String()
}

// IsValidRoomID checks if the given string is a valid room id.
// Validity criteria include: length equals RoomIDLength and all characters belong to the Base62Chars set.
func IsValidRoomID(id string) bool {
	if len(id) != RoomIDLength {
		return false
	}

	for _, char := range id {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}

	return true
}
