// Package firebaseapp initializes the Firebase Admin SDK from configuration.
package firebaseapp

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/petropump/attendance-backend/internal/config"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const datastoreScope = "https://www.googleapis.com/auth/datastore"

// App bundles the clients the server needs from one Firebase project.
type App struct {
	ProjectID string
	Firestore *firestore.Client
	Auth      *auth.Client
}

// New connects to Firebase. With no credentials configured the SDK falls back
// to application default credentials, which also covers FIRESTORE_EMULATOR_HOST.
func New(ctx context.Context, cfg config.FirebaseConfig, withAuth bool) (*App, error) {
	creds, err := credentialsJSON(cfg)
	if err != nil {
		return nil, err
	}

	var opts []option.ClientOption
	if creds != nil {
		opts = append(opts, option.WithCredentialsJSON(creds))
	}

	projectID := cfg.ProjectID
	if projectID == "" && creds != nil {
		parsed, err := google.CredentialsFromJSON(ctx, creds, datastoreScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse firebase credentials: %w", err)
		}
		projectID = parsed.ProjectID
	}

	var appConfig *firebase.Config
	if projectID != "" {
		appConfig = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, appConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	result := &App{ProjectID: projectID, Firestore: fs}
	if withAuth {
		result.Auth, err = app.Auth(ctx)
		if err != nil {
			_ = fs.Close()
			return nil, fmt.Errorf("failed to create firebase auth client: %w", err)
		}
	}
	return result, nil
}

func (a *App) Close() error {
	return a.Firestore.Close()
}

func credentialsJSON(cfg config.FirebaseConfig) ([]byte, error) {
	if cfg.CredentialsJSON != "" {
		return []byte(cfg.CredentialsJSON), nil
	}
	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read firebase credentials file: %w", err)
		}
		return data, nil
	}
	return nil, nil
}
