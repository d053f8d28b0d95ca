package doctype

import "sort"

// Fungsi murni di file ini membangun hierarki dari daftar datar hasil fetch.
// Input diasumsikan sudah terurut nama (lihat Repository.FindAll), jadi anak
// dan akar keluar dalam urutan nama tanpa sort ulang.

// ChildrenOf mengembalikan anak langsung dari typeID, urut sesuai input.
func ChildrenOf(docTypes []DocumentType, typeID string) []DocumentType {
	var children []DocumentType
	for _, dt := range docTypes {
		if dt.ParentID != nil && dt.ParentID.String() == typeID {
			children = append(children, dt)
		}
	}
	return children
}

// RootsOf mengembalikan tipe akar milik satu kategori.
func RootsOf(docTypes []DocumentType, category string) []DocumentType {
	var roots []DocumentType
	for _, dt := range docTypes {
		if dt.ParentID == nil && dt.Category == category {
			roots = append(roots, dt)
		}
	}
	return roots
}

// DistinctCategories mengembalikan label kategori unik dari tipe akar,
// alfabetis.
func DistinctCategories(docTypes []DocumentType) []string {
	seen := map[string]bool{}
	var categories []string
	for _, dt := range docTypes {
		if dt.ParentID != nil || dt.Category == "" {
			continue
		}
		if !seen[dt.Category] {
			seen[dt.Category] = true
			categories = append(categories, dt.Category)
		}
	}
	sort.Strings(categories)
	return categories
}

// CollectSubtree mengumpulkan id node beserta seluruh turunannya lewat DFS.
// Kedalaman dibatasi jumlah record (invariant asiklik), jadi selalu berhenti.
func CollectSubtree(docTypes []DocumentType, rootID string) []string {
	children := map[string][]string{}
	for _, dt := range docTypes {
		if dt.ParentID != nil {
			pid := dt.ParentID.String()
			children[pid] = append(children[pid], dt.ID.String())
		}
	}

	visited := map[string]bool{}
	var ids []string

	var walk func(id string)
	walk = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		ids = append(ids, id)
		for _, childID := range children[id] {
			walk(childID)
		}
	}
	walk(rootID)

	return ids
}

// BuildTree mengelompokkan katalog per kategori dan menyusun tiap akar
// menjadi node rekursif untuk rendering.
func BuildTree(docTypes []DocumentType) []CategoryGroupResponse {
	groups := make([]CategoryGroupResponse, 0)

	for _, category := range DistinctCategories(docTypes) {
		var nodes []DocumentTypeTreeNode
		total := 0
		for _, root := range RootsOf(docTypes, category) {
			node, count := buildNode(docTypes, root, category)
			nodes = append(nodes, node)
			total += count
		}
		groups = append(groups, CategoryGroupResponse{
			Category: category,
			Count:    total,
			Types:    nodes,
		})
	}

	return groups
}

func buildNode(docTypes []DocumentType, dt DocumentType, category string) (DocumentTypeTreeNode, int) {
	node := DocumentTypeTreeNode{
		DocumentTypeResponse: mapToResponse(dt, category),
		Children:             []DocumentTypeTreeNode{},
	}

	count := 1
	for _, child := range ChildrenOf(docTypes, dt.ID.String()) {
		childNode, childCount := buildNode(docTypes, child, category)
		node.Children = append(node.Children, childNode)
		count += childCount
	}

	return node, count
}

// FlattenWithCategories memetakan seluruh katalog ke response datar untuk
// menu pilihan; kategori anak diturunkan dari akarnya.
func FlattenWithCategories(docTypes []DocumentType) []DocumentTypeResponse {
	byID := map[string]DocumentType{}
	for _, dt := range docTypes {
		byID[dt.ID.String()] = dt
	}

	resp := make([]DocumentTypeResponse, len(docTypes))
	for i, dt := range docTypes {
		resp[i] = mapToResponse(dt, effectiveCategory(byID, dt))
	}
	return resp
}

func effectiveCategory(byID map[string]DocumentType, dt DocumentType) string {
	current := dt
	visited := map[string]bool{}

	for current.ParentID != nil {
		id := current.ID.String()
		if visited[id] {
			break
		}
		visited[id] = true

		parent, ok := byID[current.ParentID.String()]
		if !ok {
			break
		}
		current = parent
	}

	return current.Category
}
