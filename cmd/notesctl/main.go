package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
)

// notesctl is a thin client over the HTTP API, mostly for poking at a
// running notesd during development. The token printed by register/login
// goes into --token (or NOTESCTL_TOKEN).

func main() {
	// ---- register ----
	regCmd := flag.NewFlagSet("register", flag.ExitOnError)
	regAPI := regCmd.String("api", defaultAPI(), "API base URL")
	regUser := regCmd.String("username", "", "username")
	regEmail := regCmd.String("email", "", "email")
	regPass := regCmd.String("password", "", "password")

	// ---- login ----
	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginAPI := loginCmd.String("api", defaultAPI(), "API base URL")
	loginEmail := loginCmd.String("email", "", "email")
	loginPass := loginCmd.String("password", "", "password")

	// ---- list ----
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	listAPI := listCmd.String("api", defaultAPI(), "API base URL")
	listToken := listCmd.String("token", os.Getenv("NOTESCTL_TOKEN"), "bearer token")
	listPage := listCmd.Int("page", 1, "page number")
	listLimit := listCmd.Int("limit", 5, "notes per page")

	// ---- add ----
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	addAPI := addCmd.String("api", defaultAPI(), "API base URL")
	addToken := addCmd.String("token", os.Getenv("NOTESCTL_TOKEN"), "bearer token")
	addTitle := addCmd.String("title", "", "note title")
	addDetails := addCmd.String("details", "", "note details")

	// ---- get ----
	getCmd := flag.NewFlagSet("get", flag.ExitOnError)
	getAPI := getCmd.String("api", defaultAPI(), "API base URL")
	getToken := getCmd.String("token", os.Getenv("NOTESCTL_TOKEN"), "bearer token")
	getID := getCmd.String("id", "", "note id")

	// ---- search ----
	searchCmd := flag.NewFlagSet("search", flag.ExitOnError)
	searchAPI := searchCmd.String("api", defaultAPI(), "API base URL")
	searchToken := searchCmd.String("token", os.Getenv("NOTESCTL_TOKEN"), "bearer token")
	searchTitle := searchCmd.String("title", "", "title to search for")

	// ---- update ----
	updCmd := flag.NewFlagSet("update", flag.ExitOnError)
	updAPI := updCmd.String("api", defaultAPI(), "API base URL")
	updToken := updCmd.String("token", os.Getenv("NOTESCTL_TOKEN"), "bearer token")
	updID := updCmd.String("id", "", "note id")
	updTitle := updCmd.String("title", "", "new title")
	updDetails := updCmd.String("details", "", "new details")

	// ---- delete ----
	delCmd := flag.NewFlagSet("delete", flag.ExitOnError)
	delAPI := delCmd.String("api", defaultAPI(), "API base URL")
	delToken := delCmd.String("token", os.Getenv("NOTESCTL_TOKEN"), "bearer token")
	delID := delCmd.String("id", "", "note id")

	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "register":
		_ = regCmd.Parse(os.Args[2:])
		dieIf(call(*regAPI, http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": *regUser, "email": *regEmail, "password": *regPass,
		}))

	case "login":
		_ = loginCmd.Parse(os.Args[2:])
		dieIf(call(*loginAPI, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": *loginEmail, "password": *loginPass,
		}))

	case "list":
		_ = listCmd.Parse(os.Args[2:])
		q := url.Values{"page": {strconv.Itoa(*listPage)}, "limit": {strconv.Itoa(*listLimit)}}
		dieIf(call(*listAPI, http.MethodGet, "/api/notes?"+q.Encode(), *listToken, nil))

	case "add":
		_ = addCmd.Parse(os.Args[2:])
		dieIf(call(*addAPI, http.MethodPost, "/api/notes", *addToken, map[string]string{
			"title": *addTitle, "details": *addDetails,
		}))

	case "get":
		_ = getCmd.Parse(os.Args[2:])
		dieIf(call(*getAPI, http.MethodGet, "/api/notes/"+*getID, *getToken, nil))

	case "search":
		_ = searchCmd.Parse(os.Args[2:])
		q := url.Values{"title": {*searchTitle}}
		dieIf(call(*searchAPI, http.MethodGet, "/api/notes/search?"+q.Encode(), *searchToken, nil))

	case "update":
		_ = updCmd.Parse(os.Args[2:])
		dieIf(call(*updAPI, http.MethodPatch, "/api/notes/"+*updID, *updToken, map[string]string{
			"title": *updTitle, "details": *updDetails,
		}))

	case "delete":
		_ = delCmd.Parse(os.Args[2:])
		dieIf(call(*delAPI, http.MethodDelete, "/api/notes/"+*delID, *delToken, nil))

	default:
		usage()
	}
}

func defaultAPI() string {
	if v := os.Getenv("NOTESCTL_API"); v != "" {
		return v
	}
	return "http://localhost:4000"
}

func call(api, method, path, token string, body any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(method, api+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	// Pretty-print JSON, pass anything else through as-is.
	var pretty bytes.Buffer
	if json.Indent(&pretty, raw, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(raw))
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}
	return nil
}

func usage() {
	fmt.Print(`notesctl commands:

  register --username u --email e --password p [--api URL]
  login    --email e --password p [--api URL]
  list     --token t [--page 1 --limit 5]
  add      --token t --title T --details D
  get      --token t --id ID
  search   --token t --title T
  update   --token t --id ID --title T --details D
  delete   --token t --id ID

The bearer token can also come from NOTESCTL_TOKEN, and the API base URL
from NOTESCTL_API (default http://localhost:4000).
`)
}

func dieIf(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
