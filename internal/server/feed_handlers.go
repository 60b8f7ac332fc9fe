package server

import (
	"encoding/xml"
	"time"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetRSSFeed handles GET /rss.xml
func (s *Server) GetRSSFeed(c *fiber.Ctx) error {
	xmlDoc, err := s.subscriptionService.GenerateRSSFeed(c.Context(), s.baseURL(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/rss+xml")
	return c.SendString(xmlDoc)
}

// sitemapURL is one entry of the sitemap urlset.
type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
	LastMod    string `xml:"lastmod,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// GetSitemap handles GET /sitemap.xml. Published articles carry a lastmod;
// the static pages and the category and tag indexes do not.
func (s *Server) GetSitemap(c *fiber.Ctx) error {
	baseURL := s.baseURL(c)

	articles, err := s.articleRepo.ListPublishedSlugs(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	categories, err := s.categoryService.GetAll(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	tags, err := s.tagService.GetAll(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}

	urls := []sitemapURL{
		{Loc: baseURL, ChangeFreq: "daily", Priority: "1.0"},
		{Loc: baseURL + "/articles", ChangeFreq: "daily", Priority: "0.9"},
	}
	for _, a := range articles {
		urls = append(urls, sitemapURL{
			Loc:        baseURL + "/articles/" + a.Slug,
			ChangeFreq: "weekly",
			Priority:   "0.8",
			LastMod:    a.UpdatedAt.Format(time.RFC3339),
		})
	}
	for _, cat := range categories {
		urls = append(urls, sitemapURL{
			Loc:        baseURL + "/categories/" + cat.Slug,
			ChangeFreq: "weekly",
			Priority:   "0.7",
		})
	}
	for _, tag := range tags {
		urls = append(urls, sitemapURL{
			Loc:        baseURL + "/tags/" + tag.Slug,
			ChangeFreq: "weekly",
			Priority:   "0.6",
		})
	}

	out, err := xml.MarshalIndent(sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}, "", "  ")
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXML)
	return c.SendString(xml.Header + string(out))
}

// GetRobots handles GET /robots.txt
func (s *Server) GetRobots(c *fiber.Ctx) error {
	robots := `User-agent: *
Allow: /

# Sitemap
Sitemap: ` + s.baseURL(c) + `/sitemap.xml

Disallow: /admin
Disallow: /api

Disallow: /login
Disallow: /register
`

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlain)
	return c.SendString(robots)
}

// baseURL reconstructs the externally visible origin from the request.
func (s *Server) baseURL(c *fiber.Ctx) string {
	return c.Protocol() + "://" + c.Hostname()
}
