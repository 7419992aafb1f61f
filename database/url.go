package database

import (
	"fmt"
	"strings"
)

// ConstructDatabaseURL combines a base URL with a database name.
// sslmode=disable is appended unless the URL already sets sslmode.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	baseURL = strings.TrimRight(baseURL, "/")
	var databaseURL string

	if strings.Contains(baseURL, "?") {
		parts := strings.SplitN(baseURL, "?", 2)
		databaseURL = fmt.Sprintf("%s/%s?%s", strings.TrimRight(parts[0], "/"), databaseName, parts[1])
	} else {
		databaseURL = fmt.Sprintf("%s/%s", baseURL, databaseName)
	}

	if !strings.Contains(databaseURL, "sslmode=") {
		separator := "&"
		if !strings.Contains(databaseURL, "?") {
			separator = "?"
		}
		databaseURL = fmt.Sprintf("%s%ssslmode=disable", databaseURL, separator)
	}

	return databaseURL
}

// RedactURL hides the password of a connection URL for logging
func RedactURL(databaseURL string) string {
	schemeEnd := strings.Index(databaseURL, "://")
	at := strings.LastIndex(databaseURL, "@")
	if schemeEnd < 0 || at < schemeEnd {
		return databaseURL
	}
	userInfo := databaseURL[schemeEnd+3 : at]
	colon := strings.Index(userInfo, ":")
	if colon < 0 {
		return databaseURL
	}
	return databaseURL[:schemeEnd+3] + userInfo[:colon] + ":***" + databaseURL[at:]
}
