package jmx

import "github.com/RoaringBitmap/roaring"

const hashTreeTag = "hashTree"

// HashTree maps every node reached by the JMX nesting convention to its
// direct children. JMX encodes "N has children C" as the sibling pair
// [N, hashTree(C)]; a node with no following hashTree has no children.
//
// Child lists live in an arena indexed by node handle. The registered
// bitmap records which handles the builder visited, keeping "absent from
// the lookup" distinct from "registered with no children".
type HashTree struct {
	children   [][]*Node
	registered *roaring.Bitmap
}

// BuildHashTree scans the document's top-level hashTree container and
// returns the reconstructed hierarchy. Documents without one yield an
// empty (but usable) tree.
func BuildHashTree(doc *Document) *HashTree {
	t := &HashTree{
		children:   make([][]*Node, doc.Size()),
		registered: roaring.New(),
	}
	if main := doc.Root.Child(hashTreeTag); main != nil {
		t.process(main)
	}
	return t
}

// process walks one container's direct sibling sequence in index pairs.
// Containers strictly alternate with concrete nodes in well-formed input,
// but a stray container or a node with no follower must not desynchronize
// the pairing, hence the defensive skip of one.
func (t *HashTree) process(container *Node) {
	siblings := container.Children
	for i := 0; i < len(siblings); {
		node := siblings[i]
		if node.Tag == hashTreeTag {
			i++
			continue
		}

		t.registered.Add(uint32(node.id))

		if i+1 < len(siblings) && siblings[i+1].Tag == hashTreeTag {
			sub := siblings[i+1]
			for _, grandchild := range sub.Children {
				if grandchild.Tag != hashTreeTag {
					t.children[node.id] = append(t.children[node.id], grandchild)
				}
			}
			t.process(sub)
			i += 2
		} else {
			i++
		}
	}
}

// ChildrenOf returns the node's direct children in document order. The
// second return distinguishes a registered node with no children from a
// node the builder never visited.
func (t *HashTree) ChildrenOf(n *Node) ([]*Node, bool) {
	if n.id >= len(t.children) || !t.registered.Contains(uint32(n.id)) {
		return nil, false
	}
	return t.children[n.id], true
}
