package view

import (
	"strings"
	"time"

	"grn-daily/internal/model"

	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

// HTML rendering for the reader-facing pages. Layout chrome is kept to a
// minimum; the engine's contract is the content, not the styling.

func basePage(title string, content ...g.Node) g.Node {
	return HTML(
		Head(
			Meta(g.Attr("name", "viewport"), g.Attr("content", "width=device-width, initial-scale=1")),
			TitleEl(g.Text(title)),
			StyleEl(g.Text(`body { font-family: Georgia, serif; background: #f7f4ec; color: #111; padding: 1em; }
article { border-top: 1px solid #ccc; padding-top: .5em; margin-bottom: 1.5em; }
.byline { font-style: italic; color: #555; font-size: .9em; }
.archived { color: #777; font-style: italic; }`)),
		),
		Body(content...),
	)
}

func categoryNav() g.Node {
	return Nav(g.Map(model.Categories, func(c model.Category) g.Node {
		return A(Href("/category/"+string(c)), g.Text(string(c)), g.Text(" "))
	})...)
}

func storyCard(s Slot, heading func(...g.Node) g.Node) g.Node {
	a := s.Article
	return Article(
		g.If(a.ImageURL != "", Img(Src(a.ImageURL), Alt(a.Title))),
		heading(A(Href("/article/"+a.ID), g.Text(a.Title))),
		P(Class("byline"), g.Text(a.Byline())),
		P(g.Text(s.Excerpt)),
	)
}

// FrontPageHTML renders the day's edition.
func FrontPageHTML(fp FrontPage, today time.Time) g.Node {
	var sections []g.Node
	sections = append(sections,
		Header(
			H1(g.Text(model.OrgName+" Daily")),
			P(Class("byline"), g.Text(today.Format("Monday, January 2, 2006"))),
			categoryNav(),
		),
	)

	if fp.Left == nil && fp.Main == nil && fp.Right == nil && len(fp.Bottom) == 0 {
		sections = append(sections, P(Class("byline"), g.Text("No stories published yet.")))
		return basePage(model.OrgName+" Daily", sections...)
	}

	if fp.Left != nil {
		sections = append(sections, storyCard(*fp.Left, H2))
	}
	if fp.Main != nil {
		sections = append(sections, storyCard(*fp.Main, H2))
	}
	if fp.Right != nil {
		sections = append(sections, storyCard(*fp.Right, H3))
	}
	for _, s := range fp.Bottom {
		sections = append(sections, storyCard(s, H3))
	}
	return basePage(model.OrgName+" Daily", sections...)
}

// CatalogueHTML renders the merged current+archived catalogue with the
// category dropdown.
func CatalogueHTML(entries []CatalogueEntry, selected string) g.Node {
	options := []g.Node{Option(Value("All"), g.Text("All"), g.If(selected == "" || selected == "All", Selected()))}
	for _, c := range model.Categories {
		options = append(options, Option(Value(string(c)), g.Text(string(c)), g.If(selected == string(c), Selected())))
	}

	return basePage(model.OrgName+" News Catalogue",
		Header(
			H1(g.Text(model.OrgName+" News Catalogue")),
			P(Class("byline"), g.Text("Browse all published and archived articles.")),
		),
		FormEl(Method("get"), Action("/news"),
			Select(Name("category"), g.Group(options)),
			Button(Type("submit"), g.Text("Filter")),
		),
		g.Group(g.Map(entries, func(e CatalogueEntry) g.Node {
			status := P(Class("byline"), g.Text(e.Article.Byline()+" • Active"))
			if e.Status == model.StatusArchived {
				status = P(Class("byline archived"), g.Text(e.Article.Byline()+" • Archived"))
			}
			excerpt := e.Excerpt
			if e.Article.Body == "" {
				excerpt = "No content."
			}
			return Article(
				g.If(e.Article.ImageURL != "", Img(Src(e.Article.ImageURL), Alt(e.Article.Title))),
				H2(A(Href("/article/"+e.Article.ID), g.Text(e.Article.Title))),
				status,
				P(g.Text(excerpt)),
			)
		})),
	)
}

// CategoryPageHTML renders a category preview with its expand action.
func CategoryPageHTML(page CategoryPage) g.Node {
	name := string(page.Category)
	nodes := []g.Node{
		Header(
			H1(g.Text(titleCase(name)+" News")),
			P(Class("byline"), g.Text("The latest "+name+" stories from "+model.OrgName+" Daily")),
			A(Href("/"), g.Text("← Back to Home")),
		),
	}

	if len(page.Visible) == 0 {
		nodes = append(nodes, P(g.Text("No articles available for this category yet.")))
		return basePage(titleCase(name)+" News", nodes...)
	}

	for _, s := range page.Visible {
		nodes = append(nodes, storyCard(s, H2))
	}
	if page.HasMore {
		if page.Expanded {
			nodes = append(nodes, A(Href("/category/"+name), g.Text("Show Less")))
		} else {
			nodes = append(nodes, A(Href("/category/"+name+"?expand=1"), g.Text("View More")))
		}
	}
	return basePage(titleCase(name)+" News", nodes...)
}

// ArticleHTML renders a full story.
func ArticleHTML(a model.Article, status model.Status) g.Node {
	label := "Active Article"
	class := "byline"
	if status == model.StatusArchived {
		label = "Archived Article"
		class = "byline archived"
	}
	body := a.Body
	if body == "" {
		body = "No content available."
	}
	return basePage(a.Title,
		A(Href("/news"), g.Text("← Back to Catalogue")),
		H1(g.Text(a.Title)),
		g.If(a.Subtitle != "", H2(Class("byline"), g.Text(a.Subtitle))),
		P(Class(class), g.Text(a.Byline()+" • "+label)),
		g.If(a.ImageURL != "", Img(Src(a.ImageURL), Alt(a.Title))),
		P(g.Text(body)),
	)
}

// SubscribeResultHTML confirms or rejects a newsletter sign-up.
func SubscribeResultHTML(email string, err error) g.Node {
	if err != nil {
		return basePage("Subscription failed",
			H1(g.Text("Subscription failed")),
			P(g.Text(err.Error())),
		)
	}
	return basePage("Subscribed",
		H1(g.Text("You're subscribed to "+model.OrgName+" Daily updates!")),
		P(g.Text(email)),
	)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
