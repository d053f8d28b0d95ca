package doctype

type CreateDocumentTypeRequest struct {
	Name     string  `json:"name" binding:"required"`
	Category string  `json:"category"`
	ParentID *string `json:"parent_id"`
}

type UpdateDocumentTypeRequest struct {
	Name     string  `json:"name" binding:"required"`
	ParentID *string `json:"parent_id"`
}

type DocumentTypeResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	ParentID string `json:"parent_id,omitempty"`
}

type DocumentTypeTreeNode struct {
	DocumentTypeResponse
	Children []DocumentTypeTreeNode `json:"children"`
}

type CategoryGroupResponse struct {
	Category string                 `json:"category"`
	Count    int                    `json:"count"`
	Types    []DocumentTypeTreeNode `json:"types"`
}

type ImportTemplatesResponse struct {
	Imported int `json:"imported"`
}
