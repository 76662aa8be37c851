package model

// CommitRecord represents one normalized commit from the upstream API.
// It is derived read-only from the provider response and discarded after
// the current tick completes.
type CommitRecord struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Author  string `json:"author"`
	Date    string `json:"date"`
}

// ShortSHA returns the first 7 characters of the commit SHA.
func (c CommitRecord) ShortSHA() string {
	if len(c.SHA) < 7 {
		return c.SHA
	}
	return c.SHA[:7]
}
