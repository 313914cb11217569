package arva

// Page holds the scalar page fields the engine consumes from the read query.
type Page struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Path    string `json:"path"`
	Content string `json:"content"`
	Locale  string `json:"locale"`
	Tags    []Tag  `json:"tags"`
}

// Tag is one entry of a page's remote tag list.
type Tag struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// TagTitles returns the page's tag titles in remote order.
func (p *Page) TagTitles() []string {
	titles := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		titles = append(titles, tag.Title)
	}
	return titles
}

// Institution mirrors the arvaInstitution collection entries.
type Institution struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	URL           string `json:"url"`
	IsResponsible bool   `json:"isResponsible"`
}

// LegalAct mirrors the arvaLegalAct collection entries.
type LegalAct struct {
	ID               int64   `json:"id"`
	GlobalID         float64 `json:"globalId"`
	GroupID          int64   `json:"groupId"`
	Title            string  `json:"title"`
	URL              string  `json:"url"`
	VersionStartDate string  `json:"versionStartDate"`
	LegalActType     string  `json:"legalActType"`
}

// PageContact mirrors the arvaPageContact collection entries.
type PageContact struct {
	ID             int64  `json:"id"`
	ContactID      int64  `json:"contactId"`
	Role           string `json:"role"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Company        string `json:"company"`
	Email          string `json:"email"`
	CountryCode    string `json:"countryCode"`
	NationalNumber string `json:"nationalNumber"`
}

// RelatedPage mirrors the arvaRelatedPages collection entries.
type RelatedPage struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Locale string `json:"locale"`
}

// Service mirrors the arvaService collection entries.
type Service struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PageGraph is the full record graph returned by one read query: the page
// plus its five related-entity collections.
type PageGraph struct {
	Page         Page
	Institutions []Institution
	LegalActs    []LegalAct
	Contacts     []PageContact
	RelatedPages []RelatedPage
	Services     []Service
}

// pageGraphData decodes the data object of the read query. History and SDG
// metadata come back in the payload too but are not decoded.
type pageGraphData struct {
	Pages struct {
		Single Page `json:"single"`
	} `json:"pages"`
	ArvaInstitution struct {
		Items []Institution `json:"getArvaInstitutionsForPage"`
	} `json:"arvaInstitution"`
	ArvaLegalAct struct {
		Items []LegalAct `json:"getLegalActsForPage"`
	} `json:"arvaLegalAct"`
	ArvaPageContact struct {
		Items []PageContact `json:"getArvaPageContactForPage"`
	} `json:"arvaPageContact"`
	ArvaRelatedPages struct {
		Items []RelatedPage `json:"getRelatedPagesForPage"`
	} `json:"arvaRelatedPages"`
	ArvaService struct {
		Items []Service `json:"getArvaServicesForPage"`
	} `json:"arvaService"`
}

// PageInput carries the scalar page fields of a create or update mutation.
type PageInput struct {
	Content     string
	Description string
	Editor      string
	IsPrivate   bool
	IsPublished bool
	Locale      string
	Path        string
	Tags        []string
	Title       string
}

// variables renders the input as mutation variables.
func (in PageInput) variables() map[string]any {
	return map[string]any{
		"content":     in.Content,
		"description": in.Description,
		"editor":      in.Editor,
		"isPrivate":   in.IsPrivate,
		"isPublished": in.IsPublished,
		"locale":      in.Locale,
		"path":        in.Path,
		"tags":        in.Tags,
		"title":       in.Title,
	}
}

// InstitutionInput is one entry of the follow-up mutation's institution list.
type InstitutionInput struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	URL           string `json:"url"`
	IsResponsible bool   `json:"isResponsible"`
}

// LegalActInput is one entry of the follow-up mutation's legal-act list. The
// remote side assigns ids to legal acts itself, so none is sent.
type LegalActInput struct {
	Title            string  `json:"title"`
	URL              string  `json:"url"`
	LegalActType     string  `json:"legalActType"`
	GlobalID         float64 `json:"globalId"`
	GroupID          int64   `json:"groupId"`
	VersionStartDate string  `json:"versionStartDate"`
}

// PageContactInput is one entry of the follow-up mutation's contact list. Its
// id field carries the contact registry id, not the local row id.
type PageContactInput struct {
	ID             int64  `json:"id"`
	Role           string `json:"role"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Company        string `json:"company"`
	Email          string `json:"email"`
	CountryCode    string `json:"countryCode"`
	NationalNumber string `json:"nationalNumber"`
}

// RelatedPageInput is one entry of the follow-up mutation's related-page list.
type RelatedPageInput struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Locale string `json:"locale"`
}

// ServiceInput is one entry of the follow-up mutation's service list.
type ServiceInput struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RelatedInput groups the five related-entity lists of one follow-up call.
type RelatedInput struct {
	Institutions []InstitutionInput
	LegalActs    []LegalActInput
	Contacts     []PageContactInput
	RelatedPages []RelatedPageInput
	Services     []ServiceInput
}

// MutationResult is the outcome of a successful create or update mutation.
type MutationResult struct {
	PageID  int64
	Message string
}

// responseResult decodes the responseResult object shared by the mutations.
type responseResult struct {
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message"`
}

// pageMutationData decodes the data object of create and update mutations.
type pageMutationData struct {
	Pages struct {
		Create *mutationOutcome `json:"create"`
		Update *mutationOutcome `json:"update"`
	} `json:"pages"`
}

type mutationOutcome struct {
	ResponseResult responseResult `json:"responseResult"`
	Page           struct {
		ID int64 `json:"id"`
	} `json:"page"`
}
