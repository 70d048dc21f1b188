package dto

// Form bodies, parsed with fiber's BodyParser.

type UserForm struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Picture string `form:"picture"`
}

type CategoryForm struct {
	Name string `form:"name"`
}

type ItemForm struct {
	Name        string `form:"name"`
	Category    string `form:"category"`
	Description string `form:"description"`
	Picture     string `form:"picture"`
	Created     string `form:"created"`
}
