package github

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
	"golang.org/x/term"
)

// AuthManager handles GitHub authentication
type AuthManager struct {
	client *github.Client
	token  string
}

// NewAuthManager creates a new authentication manager
func NewAuthManager() *AuthManager {
	return &AuthManager{}
}

// ReadTokenFile reads a personal access token from path. The file is
// read exactly once and every whitespace character is stripped, so a
// trailing newline or a token split across lines does no harm. Passing
// "-" reads the token from standard input instead, without echo when
// stdin is a terminal. The token is treated as an opaque credential and
// never printed or logged.
func ReadTokenFile(path string) (string, error) {
	var data []byte
	var err error

	if path == "-" {
		data, err = readTokenStdin()
		if err != nil {
			return "", &CredentialError{Path: path, Message: "failed to read token from stdin", Cause: err}
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return "", &CredentialError{Path: path, Message: "failed to read token file", Cause: err}
		}
	}

	token := stripWhitespace(string(data))
	if token == "" {
		return "", &CredentialError{Path: path, Message: "token file is empty"}
	}

	return token, nil
}

// readTokenStdin reads a token from standard input, suppressing echo
// when stdin is an interactive terminal
func readTokenStdin() ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "GitHub token: ")
		defer fmt.Fprintln(os.Stderr)
		return term.ReadPassword(fd)
	}
	return io.ReadAll(os.Stdin)
}

// stripWhitespace removes every whitespace character from s
func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Authenticate sets up the GitHub client with the provided token
func (am *AuthManager) Authenticate(token string) error {
	if token == "" {
		return fmt.Errorf("GitHub token cannot be empty")
	}

	// Create OAuth2 token source
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	// Create GitHub client
	am.client = github.NewClient(tc)
	am.token = token

	return nil
}

// AuthenticateEnterprise sets up a client for a GitHub Enterprise
// instance rooted at baseURL, so token validation talks to the same
// host the provisioning run will.
func (am *AuthManager) AuthenticateEnterprise(token, baseURL string) error {
	if token == "" {
		return fmt.Errorf("GitHub token cannot be empty")
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	client, err := github.NewClient(tc).WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return NewGitHubError(ErrorTypeValidation, fmt.Sprintf("invalid GitHub base URL %q", baseURL), err)
	}

	am.client = client
	am.token = token

	return nil
}

// ValidateToken validates the GitHub token and checks permissions
func (am *AuthManager) ValidateToken(ctx context.Context) (*TokenInfo, error) {
	if am.client == nil {
		return nil, fmt.Errorf("not authenticated: call Authenticate() first")
	}

	// Get the authenticated user to validate the token. The same
	// response carries the token scopes.
	user, resp, err := am.client.Users.Get(ctx, "")
	if err != nil {
		return nil, WrapGitHubError(err, "authenticated user")
	}

	scopes := []string{}
	if scopeHeader := resp.Header.Get("X-OAuth-Scopes"); scopeHeader != "" {
		scopes = strings.Split(strings.ReplaceAll(scopeHeader, " ", ""), ",")
	}

	tokenInfo := &TokenInfo{
		User:   user.GetLogin(),
		Scopes: scopes,
	}

	// Fine-grained tokens do not report scopes, so only classic tokens
	// with an explicit scope list are checked.
	if len(tokenInfo.Scopes) > 0 {
		if err := am.validatePermissions(tokenInfo.Scopes); err != nil {
			return tokenInfo, err
		}
	}

	return tokenInfo, nil
}

// validatePermissions checks if the token has required permissions
func (am *AuthManager) validatePermissions(scopes []string) error {
	requiredScopes := []string{"repo"}
	scopeMap := make(map[string]bool)

	for _, scope := range scopes {
		scopeMap[scope] = true
	}

	var missingScopes []string
	for _, required := range requiredScopes {
		if !scopeMap[required] {
			missingScopes = append(missingScopes, required)
		}
	}

	if len(missingScopes) > 0 {
		return NewGitHubError(ErrorTypePermission,
			fmt.Sprintf("GitHub token missing required permissions: %s. Please ensure your token has the following scopes: %s",
				strings.Join(missingScopes, ", "), strings.Join(requiredScopes, ", ")), nil)
	}

	return nil
}

// GetClient returns the authenticated GitHub client
func (am *AuthManager) GetClient() *github.Client {
	return am.client
}

// TokenInfo contains information about the authenticated token
type TokenInfo struct {
	User   string   `json:"user"`
	Scopes []string `json:"scopes"`
}

// GetAuthInstructions returns instructions for setting up GitHub authentication
func GetAuthInstructions() string {
	return `GitHub authentication is required. The last argument names a file
containing a personal access token, for example:

  classforge provision a1 ece459-1231 staff/assignment-template roster.csv token.txt

Pass "-" as the token file to type or pipe the token on standard input.

To create a personal access token:
1. Go to GitHub Settings > Developer settings > Personal access tokens
2. Click "Generate new token (classic)"
3. Select the following scopes:
   - repo (Full control of private repositories)
4. Save the generated token to a file readable only by you:
   (umask 077; cat > token.txt)

Note: The token must have 'repo' scope to fork repositories, add
collaborators, and configure branch protection.`
}
