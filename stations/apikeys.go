// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package stations

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	apikeys "cloud.google.com/go/apikeys/apiv2"
	"cloud.google.com/go/apikeys/apiv2/apikeyspb"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
)

// googleKeyDisplayName is the display name of the managed API key resource
// in the project's key ring.
const googleKeyDisplayName = "FireFinder Places Key"

// ResolveGoogleAPIKey returns the Google Places key from the environment,
// falling back to Application Default Credentials when GOOGLE_MAPS_API_KEY
// is unset. An empty result is not fatal: provider calls will simply fail
// and be absorbed by their catch-all.
func ResolveGoogleAPIKey(ctx context.Context) string {
	if key := os.Getenv("GOOGLE_MAPS_API_KEY"); key != "" {
		return key
	}

	log.Println("GOOGLE_MAPS_API_KEY is not set. Attempting to retrieve via ADC...")

	key, err := apiKeyFromADC(ctx)
	if err != nil {
		log.Printf("Failed to retrieve API key via ADC: %v", err)

		return ""
	}

	return key
}

func apiKeyFromADC(ctx context.Context) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return "", fmt.Errorf("finding default credentials: %w", err)
	}

	projectID := creds.ProjectID
	if projectID == "" {
		return "", errors.New("no project ID in default credentials")
	}

	client, err := apikeys.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating apikeys client: %w", err)
	}
	defer client.Close()

	req := &apikeyspb.ListKeysRequest{
		Parent: fmt.Sprintf("projects/%s/locations/global", projectID),
	}

	it := client.ListKeys(ctx, req)

	for {
		key, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("listing keys: %w", err)
		}

		if key.DisplayName != googleKeyDisplayName {
			continue
		}

		// ListKeys redacts KeyString; GetKeyString retrieves the secret.
		resp, err := client.GetKeyString(ctx, &apikeyspb.GetKeyStringRequest{Name: key.Name})
		if err != nil {
			return "", fmt.Errorf("getting key string: %w", err)
		}

		if resp.KeyString == "" {
			return "", fmt.Errorf("key %q found but KeyString is empty", googleKeyDisplayName)
		}

		return resp.KeyString, nil
	}

	return "", fmt.Errorf("key with display name %q not found in project %s", googleKeyDisplayName, projectID)
}
