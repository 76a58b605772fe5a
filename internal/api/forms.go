package api

func (req *CreateLanguageRequest) bindForm(values map[string][]string) error {
	req.Name = valueOrEmpty(formString(values, "name"))
	req.Country = valueOrEmpty(formString(values, "country"))
	req.Description = formString(values, "description")
	req.ImageURL = formString(values, "imageUrl")

	var err error
	req.IsActive, err = formBool(values, "isActive")
	return err
}

func (req *UpdateLanguageRequest) bindForm(values map[string][]string) error {
	req.Name = formString(values, "name")
	req.Country = formString(values, "country")
	req.Description = formString(values, "description")
	req.ImageURL = formString(values, "imageUrl")

	var err error
	req.IsActive, err = formBool(values, "isActive")
	return err
}

// Lesson forms treat isPublished as true only for the literal "true".
func (req *CreateLessonRequest) bindForm(values map[string][]string) error {
	req.Title = valueOrEmpty(formString(values, "title"))
	req.Description = formString(values, "description")
	req.Content = formString(values, "content")
	req.MediaURL = formString(values, "mediaUrl")
	req.Type = valueOrEmpty(formString(values, "type"))
	req.Level = formString(values, "level")
	req.LanguageID = valueOrEmpty(formString(values, "languageId"))
	req.IsPublished = formFlag(values, "isPublished")

	var err error
	req.Duration, err = formInt(values, "duration")
	return err
}

func (req *UpdateLessonRequest) bindForm(values map[string][]string) error {
	req.Title = formString(values, "title")
	req.Description = formString(values, "description")
	req.Content = formString(values, "content")
	req.MediaURL = formString(values, "mediaUrl")
	req.Type = formString(values, "type")
	req.Level = formString(values, "level")
	req.LanguageID = formString(values, "languageId")
	req.IsPublished = formFlag(values, "isPublished")

	var err error
	req.Duration, err = formInt(values, "duration")
	return err
}

func formFlag(values map[string][]string, key string) *bool {
	s := formString(values, key)
	if s == nil {
		return nil
	}
	b := *s == "true"
	return &b
}
