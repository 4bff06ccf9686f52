package handlers_integrated_test_suite

import (
	"fmt"
	"os"
	"testing"

	"github.com/rogerio-castellano/bizmanage/internal/http/router"
)

// TestMain runs the suite against the database named by DATABASE_URL. Every table is truncated first.
func TestMain(m *testing.M) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		fmt.Println("DATABASE_URL not set, skipping integrated handler tests")
		os.Exit(0)
	}
	if err := setup(url, "secret"); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	var err error
	token, err = generateToken(router.NewRouter(), "admin", "secret")
	if err != nil {
		fmt.Println("error generating token:", err)
		os.Exit(1)
	}

	code := m.Run()
	database.Close()
	os.Exit(code)
}
