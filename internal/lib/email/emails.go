package email

import "strconv"

// CatCreated describes the cat a notification is about.
type CatCreated struct {
	ID    int
	Name  string
	Breed string
	Age   int
}

// SendCatCreatedEmail tells the configured recipient that a cat was added.
func (c *Client) SendCatCreatedEmail(to string, cat CatCreated) error {
	// Keys must match the placeholders in templates/cat_created.html.
	data := map[string]string{
		"CatID":    strconv.Itoa(cat.ID),
		"CatName":  cat.Name,
		"CatBreed": cat.Breed,
		"CatAge":   strconv.Itoa(cat.Age),
	}

	return c.SendEmail(
		to,
		"New cat: "+cat.Name,
		TemplateCatCreated,
		data,
	)
}
