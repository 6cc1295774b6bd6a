package satcool

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"github.com/vertextoedge/course-archiver/internal/domain"
)

// browserHeaders mimic a regular browser visit. The classroom page is
// rendered server-side only for requests that look like a navigation.
var browserHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9,zh-TW;q=0.8,zh;q=0.7",
	"Cache-Control":   "no-cache",
	"Pragma":          "no-cache",
	"Referer":         "https://www.google.com/",
	"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
}

// FetchCoursePage downloads the classroom HTML page and extracts the
// course structure from its markup. Lesson durations and materials are
// not present in the page; entries carry titles and ids only.
func (c *Client) FetchCoursePage(pageURL string, cookies map[string]string) (*domain.CourseTree, error) {
	req, err := http.NewRequest("GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}
	for name, value := range cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	tree, err := ExtractCourseTree(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("extract course page: %w", err)
	}
	return tree, nil
}

// ExtractCourseTree parses a classroom page and returns the course
// structure it describes. Any element the structure depends on being
// absent is an error; partial trees are never returned.
func ExtractCourseTree(r io.Reader) (*domain.CourseTree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	nameWrap := findFirst(doc, func(n *html.Node) bool {
		return hasClass(n, "classroom-top-wrap")
	})
	if nameWrap == nil {
		return nil, fmt.Errorf("course page has no classroom-top-wrap element")
	}
	nameLink := findFirst(nameWrap, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "a"
	})
	if nameLink == nil {
		return nil, fmt.Errorf("course page has no course name link")
	}
	courseName := text(nameLink)
	if courseName == "" {
		return nil, fmt.Errorf("course page course name is empty")
	}

	tablist := findFirst(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "div" {
			return false
		}
		role, ok := attrValue(n, "role")
		return ok && role == "tablist"
	})
	if tablist == nil {
		return nil, fmt.Errorf("course page has no chapter tablist")
	}

	var chapters []domain.Chapter
	for i, chNode := range findAll(tablist, func(n *html.Node) bool {
		return hasClass(n, "el-collapse-item")
	}) {
		titleNode := findFirst(chNode, func(n *html.Node) bool {
			return hasClass(n, "classroom-chapter-list__collapse-title")
		})
		if titleNode == nil || text(titleNode) == "" {
			return nil, fmt.Errorf("course page: chapter %d has no title", i+1)
		}

		var parts []domain.Part
		for j, partNode := range findAll(chNode, func(n *html.Node) bool {
			_, ok := attrValue(n, "data-chapter-part")
			return n.Type == html.ElementNode && ok
		}) {
			partTitle := findFirst(partNode, func(n *html.Node) bool {
				return hasClass(n, "classroom-chapter-list__title")
			})
			if partTitle == nil || text(partTitle) == "" {
				return nil, fmt.Errorf("course page: chapter %d part %d has no title", i+1, j+1)
			}
			id, _ := attrValue(partNode, "data-chapter-part")
			parts = append(parts, domain.Part{
				ID:   id,
				Name: text(partTitle),
			})
		}

		chapters = append(chapters, domain.Chapter{
			Title: text(titleNode),
			Parts: parts,
		})
	}

	return &domain.CourseTree{
		CourseName: courseName,
		Chapters:   chapters,
	}, nil
}

// findFirst returns the first node in depth-first order matching pred,
// including n itself.
func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns all nodes in depth-first order matching pred.
// Children of a matching node are not searched again.
func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	if pred(n) {
		return []*html.Node{n}
	}
	var found []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		found = append(found, findAll(c, pred)...)
	}
	return found
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	classes, ok := attrValue(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(classes) {
		if c == class {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// text collects the trimmed text content of a node's subtree.
func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
