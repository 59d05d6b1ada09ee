// Package firestoredb stores users and attendance in Cloud Firestore using the
// collection layout the mobile clients read:
//
//	users/{userId}
//	admin/{userId}
//	attendance/{year}/{month}/{day}/employees/{userId}
//	users/{userId}/attendance/{year}-{month}-{day}
package firestoredb

import (
	"time"

	"cloud.google.com/go/firestore"
	"github.com/petropump/attendance-backend/internal/domain/attendance"
	"github.com/petropump/attendance-backend/internal/domain/user"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection      = "users"
	adminCollection      = "admin"
	attendanceCollection = "attendance"
	employeesCollection  = "employees"
)

type userDoc struct {
	Name      string    `firestore:"name"`
	Email     string    `firestore:"email"`
	Phone     string    `firestore:"phone"`
	Role      string    `firestore:"role"`
	CreatedAt time.Time `firestore:"createdAt,omitempty"`
	UpdatedAt time.Time `firestore:"updatedAt,omitempty"`
}

func newUserDoc(u user.User) userDoc {
	return userDoc{
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (d userDoc) toUser(id string) user.User {
	return user.User{
		ID:        id,
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Role:      user.ParseRole(d.Role),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// recordDoc is the attendance payload. Leave records carry no coordinates.
type recordDoc struct {
	UserID    string    `firestore:"userId"`
	UserName  string    `firestore:"userName"`
	Timestamp time.Time `firestore:"timestamp"`
	Latitude  *float64  `firestore:"latitude,omitempty"`
	Longitude *float64  `firestore:"longitude,omitempty"`
	Status    string    `firestore:"status"`
}

func newRecordDoc(rec attendance.Record) recordDoc {
	return recordDoc{
		UserID:    rec.UserID,
		UserName:  rec.UserName,
		Timestamp: rec.Timestamp,
		Latitude:  rec.Latitude,
		Longitude: rec.Longitude,
		Status:    string(rec.Status),
	}
}

func (d recordDoc) toRecord() attendance.Record {
	return attendance.Record{
		UserID:    d.UserID,
		UserName:  d.UserName,
		Timestamp: d.Timestamp,
		Latitude:  d.Latitude,
		Longitude: d.Longitude,
		Status:    attendance.ParseStatus(d.Status),
	}
}

func decodeRecord(snap *firestore.DocumentSnapshot, userID string) (attendance.Record, error) {
	var doc recordDoc
	if err := snap.DataTo(&doc); err != nil {
		return attendance.Record{}, err
	}
	// Older clients may have left userId out of the payload
	if doc.UserID == "" {
		doc.UserID = userID
	}
	return doc.toRecord(), nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
