package diagnose

import (
	"fmt"

	"keydoctor/internal/credential"
)

const (
	titleText = "API Key Diagnostic Tool"

	msgLoaded         = "Loaded the API key from secrets.toml"
	msgFormatValid    = "The API key format is valid"
	msgFormatInvalid  = "The API key format is invalid"
	msgWhitespace     = "The API key has leading or trailing whitespace or line breaks"
	msgNoWhitespace   = "The API key has no extra whitespace or line breaks"
	msgProbeSucceeded = "API test succeeded!"
	msgAuthFailed     = "Authentication error: the API key is invalid"
	msgProbeBusy      = "A test for this API key is already running. Try again in a moment."

	buttonLabel  = "Run API test"
	spinnerLabel = "Testing..."

	authRemediation = `Possible causes:
1. The API key has expired or been revoked
2. There is a billing problem on the Anthropic account
3. The API key lacks the required permissions

What to do:
1. Check the account status in the Anthropic Console
2. Check the billing information
3. Create a new API key`
)

func msgNotFound(path string) string {
	return fmt.Sprintf("%s was not found in %s", credential.Key, path)
}

func msgUnreadable(path string, err error) string {
	return fmt.Sprintf("Could not read %s: %v", path, err)
}

func setupInstructions(path string) string {
	return fmt.Sprintf("Create the secrets file at the following location:\n"+
		"`%s`\n\n"+
		"Contents:\n"+
		"```toml\n"+
		"%s = \"<your API key>\"\n"+
		"```", path, credential.Key)
}

func msgPreview(c credential.Credential) string {
	return "API key (preview): " + c.Preview()
}

func msgLength(c credential.Credential) string {
	return fmt.Sprintf("API key length: %d characters", c.Length())
}

func codeOriginal(c credential.Credential) string {
	return fmt.Sprintf("Original: '%s'", c.Raw)
}

func codeFixed(c credential.Credential) string {
	return fmt.Sprintf("Fixed: '%s'", c.Trimmed())
}

func msgOtherFailure(kind string) string {
	return "An error occurred: " + kind
}

func msgDetail(detail string) string {
	return "Details: " + detail
}
