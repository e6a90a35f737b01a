package config

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID, apiURL string) *Slack {
	return &Slack{
		botToken:  botToken,
		channelID: channelID,
		apiURL:    apiURL,
	}
}

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, path string) *Repository {
	return &Repository{
		backend: backend,
		path:    path,
	}
}

// NewStorageForTest creates a Storage config for testing purposes
func NewStorageForTest(backend, bucket string) *Storage {
	return &Storage{
		backend: backend,
		bucket:  bucket,
	}
}
