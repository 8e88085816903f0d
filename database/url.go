package database

import "strings"

// BuildURL joins a base connection URL with a database name. The base
// may already carry query parameters; sslmode=disable is appended when
// the caller did not choose one.
func BuildURL(baseURL, databaseName string) string {
	url := strings.TrimRight(baseURL, "/")

	if databaseName != "" {
		if base, params, ok := strings.Cut(url, "?"); ok {
			url = base + "/" + databaseName + "?" + params
		} else {
			url = url + "/" + databaseName
		}
	}

	if !strings.Contains(url, "sslmode=") {
		if strings.Contains(url, "?") {
			url += "&sslmode=disable"
		} else {
			url += "?sslmode=disable"
		}
	}

	return url
}
