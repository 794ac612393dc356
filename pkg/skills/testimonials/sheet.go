package testimonials

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/devexpertio/skills/pkg/skills/googleauth"
	"github.com/devexpertio/skills/pkg/skills/paths"
)

// Scopes cover reading and marking the testimonials sheet plus downloading
// photo attachments from Drive.
var Scopes = []string{
	sheets.SpreadsheetsScope,
	drive.DriveReadonlyScope,
}

// DefaultSheetRange is the A1 range fetched from the responses tab.
const DefaultSheetRange = "A1:Z"

// DefaultMarkValue is written to the published column after import.
const DefaultMarkValue = "x"

// DefaultCredentials locates the OAuth client secret and token for the
// testimonials sheet.
func DefaultCredentials() googleauth.Credentials {
	return googleauth.Credentials{
		ClientSecretPath: paths.ClientSecretPath(),
		TokenPath:        paths.TestimonialsTokenPath(),
		Scopes:           Scopes,
	}
}

// Sheet wraps the Sheets and Drive services used by the sync flow. Cell
// updates run through a limiter to stay under the per-minute write quota.
type Sheet struct {
	sheets  *sheets.Service
	drive   *drive.Service
	limiter *rate.Limiter
}

// NewSheet builds an authenticated Sheet client.
func NewSheet(ctx context.Context, creds googleauth.Credentials) (*Sheet, error) {
	_, ts, err := creds.Client(ctx)
	if err != nil {
		return nil, err
	}
	httpClient := oauth2.NewClient(ctx, ts)
	sheetsSvc, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("creating drive client: %w", err)
	}
	return &Sheet{
		sheets:  sheetsSvc,
		drive:   driveSvc,
		limiter: rate.NewLimiter(rate.Limit(1), 1),
	}, nil
}

// ResolveSheetTitle finds the tab title for a gid, or the only tab when the
// spreadsheet has exactly one.
func (s *Sheet) ResolveSheetTitle(ctx context.Context, sheetID string, gid *int) (string, error) {
	meta, err := s.sheets.Spreadsheets.Get(sheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("fetching sheet metadata: %w", err)
	}
	if len(meta.Sheets) == 0 {
		return "", fmt.Errorf("spreadsheet %s has no tabs", sheetID)
	}
	if gid != nil {
		for _, tab := range meta.Sheets {
			if tab.Properties != nil && tab.Properties.SheetId == int64(*gid) && tab.Properties.Title != "" {
				return tab.Properties.Title, nil
			}
		}
	}
	if len(meta.Sheets) == 1 && meta.Sheets[0].Properties != nil && meta.Sheets[0].Properties.Title != "" {
		return meta.Sheets[0].Properties.Title, nil
	}
	return "", fmt.Errorf("could not resolve tab title for spreadsheet %s", sheetID)
}

// FetchValues reads a range as trimmed string cells.
func (s *Sheet) FetchValues(ctx context.Context, sheetID, rangeA1 string) ([][]string, error) {
	resp, err := s.sheets.Spreadsheets.Values.Get(sheetID, rangeA1).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rangeA1, err)
	}
	values := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprint(cell)
		}
		values[i] = cells
	}
	return values, nil
}

// MarkCell writes value into a single cell.
func (s *Sheet) MarkCell(ctx context.Context, sheetID, cellA1, value string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	body := &sheets.ValueRange{Values: [][]any{{value}}}
	_, err := s.sheets.Spreadsheets.Values.Update(sheetID, cellA1, body).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("updating %s: %w", cellA1, err)
	}
	return nil
}

// DownloadDriveFile fetches a Drive file into targetDir as baseName plus the
// extension inferred from the file name or mime type.
func (s *Sheet) DownloadDriveFile(ctx context.Context, fileID, targetDir, baseName string) (string, error) {
	meta, err := s.drive.Files.Get(fileID).Fields("name", "mimeType").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("fetching drive file %s: %w", fileID, err)
	}
	ext := ""
	if strings.Contains(meta.Name, ".") {
		ext = filepath.Ext(meta.Name)
	} else if after, ok := strings.CutPrefix(meta.MimeType, "image/"); ok {
		ext = "." + after
	}
	if ext == "" {
		ext = ".jpg"
	}

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", err
	}
	outputPath := filepath.Join(targetDir, baseName+ext)

	resp, err := s.drive.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("downloading drive file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return outputPath, nil
}

// ColumnMap indexes the sheet columns by role. Optional columns are -1 when
// the header row does not carry them.
type ColumnMap struct {
	Date      int
	Name      int
	Company   int
	Position  int
	Title     int
	Text      int
	Rating    int
	Image     int
	Published int
}

// headerAliases map normalized header substrings to column roles. Order
// matters: the first alias contained in a header wins.
var headerAliases = []struct {
	alias string
	role  string
}{
	{"marca temporal", "date"},
	{"timestamp", "date"},
	{"fecha", "date"},
	{"nombre completo", "name"},
	{"nombre", "name"},
	{"puesto en la empresa", "position"},
	{"empresa", "company"},
	{"formacion devexpert", "title"},
	{"formacion", "title"},
	{"curso", "title"},
	{"testimonio", "text"},
	{"puntuacion", "rating"},
	{"foto", "image"},
	{"imagen", "image"},
	{"publicado en web", "published"},
	{"publicado", "published"},
}

// NormalizeHeader lowercases a header and strips accents for alias matching.
func NormalizeHeader(text string) string {
	decomposed := norm.NFKD.String(text)
	var ascii strings.Builder
	for _, r := range decomposed {
		if r < 128 {
			ascii.WriteRune(r)
		}
	}
	return headerSpaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(ascii.String())), " ")
}

// ResolveColumns maps header cells to sheet columns. Name, text, and
// published are required.
func ResolveColumns(headers []string) (ColumnMap, error) {
	matches := map[string]int{}
	for idx, header := range headers {
		normalized := NormalizeHeader(header)
		for _, entry := range headerAliases {
			if strings.Contains(normalized, entry.alias) {
				if _, seen := matches[entry.role]; !seen {
					matches[entry.role] = idx
				}
				break
			}
		}
	}

	var missing []string
	for _, required := range []string{"name", "text", "published"} {
		if _, ok := matches[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return ColumnMap{}, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	get := func(role string) int {
		if idx, ok := matches[role]; ok {
			return idx
		}
		return -1
	}
	return ColumnMap{
		Date:      get("date"),
		Name:      get("name"),
		Company:   get("company"),
		Position:  get("position"),
		Title:     get("title"),
		Text:      get("text"),
		Rating:    get("rating"),
		Image:     get("image"),
		Published: get("published"),
	}, nil
}

// ColumnLetter converts a zero-based column index to its A1 letter.
func ColumnLetter(index int) string {
	result := ""
	idx := index + 1
	for idx > 0 {
		idx--
		result = string(rune('A'+idx%26)) + result
		idx /= 26
	}
	return result
}

var driveIDRes = []*regexp.Regexp{
	regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`id=([a-zA-Z0-9_-]+)`),
}

// ExtractDriveID pulls the file id out of a Drive share URL.
func ExtractDriveID(url string) string {
	for _, re := range driveIDRes {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}
