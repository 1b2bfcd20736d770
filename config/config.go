package config

import (
	"os"
	"strconv"
	"strings"
)

var (
	TLS_DOMAINS        = "" // e.g. "example.com,example2.com"
	PUSH_SERVER        = "https://push.guestsnap.app"
	MYSQL_DSN          = "" // MySQL will be used if this is set
	SQLITE_FILE        = "" // SQLite will be used if MYSQL_DSN is not configured and this is set
	BIND_ADDRESS       = "0.0.0.0:8080"
	SITE_URL           = "http://localhost:8080" // Public base URL, encoded in album QR codes
	TMP_DIR            = "/tmp" // Local scratch space for S3-backed buckets
	DEFAULT_BUCKET_DIR = ""     // Used for creating the initial bucket on first start
	DEBUG_MODE         = true
	// Face matching for the find-the-guest game. Requires the dlib model
	// files (shape predictor + resnet descriptors) in FACE_MODELS_DIR.
	FACE_DETECT          = true
	FACE_MODELS_DIR      = "models"
	FACE_MAX_DISTANCE_SQ = 0.11 // Squared descriptor distance to consider two faces the same person
)

func init() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("PUSH_SERVER", &PUSH_SERVER)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("SITE_URL", &SITE_URL)
	readEnvString("TMP_DIR", &TMP_DIR)
	readEnvString("DEFAULT_BUCKET_DIR", &DEFAULT_BUCKET_DIR)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvBool("FACE_DETECT", &FACE_DETECT)
	readEnvString("FACE_MODELS_DIR", &FACE_MODELS_DIR)
	readEnvFloat("FACE_MAX_DISTANCE_SQ", &FACE_MAX_DISTANCE_SQ)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvFloat(name string, value *float64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return
	}
	*value = f
}
