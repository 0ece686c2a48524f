//go:build cgo

package analyze

import (
	sitter "github.com/smacker/go-tree-sitter"

	"recase/internal/policy"
	"recase/internal/pyparse"
)

// Analyze walks a parsed file and produces its declaration model. The
// walk runs in two passes over the same scope tree: the first collects
// declarations (so forward references resolve), the second binds every
// identifier occurrence to a declaration through the scope chain.
func Analyze(tree *pyparse.Tree) *FileAnalysis {
	a := &analyzer{
		source:  tree.Source,
		imports: make(map[string]bool),
		scopes:  make(map[spanKey]*Scope),
		fa:      &FileAnalysis{},
	}

	root := tree.Root()
	a.collectImports(root)

	module := newScope(ModuleScope, "", nil)
	a.scopes[key(root)] = module
	a.declare(root, module)
	a.occurrences(root, module)

	return a.fa
}

type analyzer struct {
	source  []byte
	imports map[string]bool
	// scopes maps a definition node's span to the scope its body opens.
	// Spans are unique per node, which lets the second pass re-enter the
	// scopes the first pass built.
	scopes map[spanKey]*Scope
	fa     *FileAnalysis
}

type spanKey struct {
	start, end uint32
}

func key(n *sitter.Node) spanKey {
	return spanKey{n.StartByte(), n.EndByte()}
}

func (a *analyzer) text(n *sitter.Node) string {
	return pyparse.NodeText(n, a.source)
}

// collectImports records every name an import statement binds, across
// the whole file, before anything else runs. Declarations shadowing an
// import and references to imported symbols are both off-limits.
func (a *analyzer) collectImports(n *sitter.Node) {
	switch n.Type() {
	case "import_statement", "import_from_statement":
		module := n.ChildByFieldName("module_name")
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if module != nil && child.StartByte() == module.StartByte() && child.EndByte() == module.EndByte() {
				continue
			}
			switch child.Type() {
			case "dotted_name":
				if first := child.NamedChild(0); first != nil && first.Type() == "identifier" {
					a.imports[a.text(first)] = true
				}
			case "aliased_import":
				if alias := child.ChildByFieldName("alias"); alias != nil {
					a.imports[a.text(alias)] = true
				}
			}
		}
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		a.collectImports(n.NamedChild(i))
	}
}

// ---- pass 1: declarations ----

func (a *analyzer) declare(n *sitter.Node, scope *Scope) {
	switch n.Type() {
	case "class_definition":
		name := n.ChildByFieldName("name")
		if name == nil {
			return
		}
		a.bindName(a.text(name), policy.RoleClass, name, scope)
		if supers := n.ChildByFieldName("superclasses"); supers != nil {
			a.declare(supers, scope)
		}
		inner := newScope(ClassScope, a.text(name), scope)
		a.scopes[key(n)] = inner
		if body := n.ChildByFieldName("body"); body != nil {
			a.declareChildren(body, inner)
		}
		return

	case "function_definition":
		name := n.ChildByFieldName("name")
		if name == nil {
			return
		}
		role := policy.RoleFunction
		if scope.Kind == ClassScope {
			role = policy.RoleMethod
		}
		a.bindName(a.text(name), role, name, scope)
		inner := newScope(FunctionScope, a.text(name), scope)
		a.scopes[key(n)] = inner
		a.collectScopeSkips(n, inner)
		params := n.ChildByFieldName("parameters")
		a.declareParams(params, inner)
		// Default values and annotations evaluate in the enclosing
		// scope; any lambda inside them needs its scope created here
		// so pass two can find it.
		a.declareParamExprs(params, scope)
		if ret := n.ChildByFieldName("return_type"); ret != nil {
			a.declare(ret, scope)
		}
		if body := n.ChildByFieldName("body"); body != nil {
			a.declareChildren(body, inner)
		}
		return

	case "lambda":
		inner := newScope(FunctionScope, "<lambda>", scope)
		a.scopes[key(n)] = inner
		params := n.ChildByFieldName("parameters")
		a.declareParams(params, inner)
		a.declareParamExprs(params, scope)
		if body := n.ChildByFieldName("body"); body != nil {
			a.declare(body, inner)
		}
		return

	case "assignment", "augmented_assignment":
		if left := n.ChildByFieldName("left"); left != nil {
			a.bindTargets(left, scope)
		}
		a.declareChildren(n, scope)
		return

	case "named_expression":
		if name := n.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
			a.bindVariable(name, scope)
		}
		a.declareChildren(n, scope)
		return

	case "for_statement", "for_in_clause":
		if left := n.ChildByFieldName("left"); left != nil {
			a.bindTargets(left, scope)
		}
		a.declareChildren(n, scope)
		return

	case "as_pattern":
		if target := asPatternTarget(n); target != nil {
			a.bindVariable(target, scope)
		}
		a.declareChildren(n, scope)
		return

	case "global_statement", "nonlocal_statement",
		"import_statement", "import_from_statement":
		// Handled by collectScopeSkips / collectImports.
		return
	}

	a.declareChildren(n, scope)
}

func (a *analyzer) declareChildren(n *sitter.Node, scope *Scope) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "as_pattern", "class_definition", "function_definition", "lambda",
			"assignment", "augmented_assignment", "named_expression",
			"for_statement", "for_in_clause",
			"global_statement", "nonlocal_statement",
			"import_statement", "import_from_statement":
			a.declare(child, scope)
		default:
			a.declareChildren(child, scope)
		}
	}
}

// bindTargets declares every binding inside an assignment or loop
// target: plain identifiers, tuple/list patterns, splats, and
// self-attribute targets.
func (a *analyzer) bindTargets(n *sitter.Node, scope *Scope) {
	switch n.Type() {
	case "identifier":
		role := policy.RoleVariable
		name := a.text(n)
		switch {
		case isConstantShaped(name) && (scope.Kind == ModuleScope || scope.Kind == ClassScope):
			role = policy.RoleConstant
		case scope.Kind == ClassScope:
			role = policy.RoleAttribute
		}
		a.bindName(name, role, n, scope)

	case "pattern_list", "tuple_pattern", "list_pattern":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			a.bindTargets(n.NamedChild(i), scope)
		}

	case "list_splat_pattern", "dictionary_splat_pattern":
		if inner := n.NamedChild(0); inner != nil {
			a.bindTargets(inner, scope)
		}

	case "attribute":
		// self.x = ... declares an attribute on the enclosing class.
		object := n.ChildByFieldName("object")
		attr := n.ChildByFieldName("attribute")
		if object == nil || attr == nil || object.Type() != "identifier" {
			return
		}
		if recv := a.text(object); recv != "self" && recv != "cls" {
			return
		}
		class := scope.enclosingClass()
		if class == nil {
			return
		}
		a.bindName(a.text(attr), policy.RoleAttribute, attr, class)
	}
}

func (a *analyzer) bindVariable(n *sitter.Node, scope *Scope) {
	a.bindName(a.text(n), policy.RoleVariable, n, scope)
}

func (a *analyzer) bindName(name string, role policy.Role, node *sitter.Node, scope *Scope) {
	if name == "" || name == "self" || name == "cls" || scope.skip[name] {
		return
	}
	point := node.StartPoint()
	d := &Decl{
		Name:          name,
		Role:          role,
		Line:          int(point.Row) + 1,
		Column:        int(point.Column),
		ShadowsImport: a.imports[name],
		scope:         scope,
	}
	if scope.declare(d) == d {
		a.fa.Decls = append(a.fa.Decls, d)
	}
}

func (a *analyzer) declareParams(params *sitter.Node, scope *Scope) {
	if params == nil {
		return
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		var name *sitter.Node
		switch child.Type() {
		case "identifier":
			name = child
		case "default_parameter", "typed_default_parameter":
			name = child.ChildByFieldName("name")
		case "typed_parameter":
			if first := child.NamedChild(0); first != nil && first.Type() == "identifier" {
				name = first
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			if first := child.NamedChild(0); first != nil && first.Type() == "identifier" {
				name = first
			}
		}
		if name != nil {
			a.bindName(a.text(name), policy.RoleArgument, name, scope)
		}
	}
}

// declareParamExprs visits default values and type annotations of a
// parameter list with the enclosing scope, where Python evaluates
// them. Binding constructs there (notably lambdas) get their scopes
// registered for pass two.
func (a *analyzer) declareParamExprs(params *sitter.Node, scope *Scope) {
	if params == nil {
		return
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		switch child.Type() {
		case "default_parameter", "typed_default_parameter":
			if value := child.ChildByFieldName("value"); value != nil {
				a.declare(value, scope)
			}
			if typ := child.ChildByFieldName("type"); typ != nil {
				a.declare(typ, scope)
			}
		case "typed_parameter":
			if typ := child.ChildByFieldName("type"); typ != nil {
				a.declare(typ, scope)
			}
		}
	}
}

// asPatternTarget extracts the bound identifier from `... as name`,
// which the grammar wraps in an as_pattern_target in some positions.
func asPatternTarget(n *sitter.Node) *sitter.Node {
	count := int(n.NamedChildCount())
	if count < 2 {
		return nil
	}
	last := n.NamedChild(count - 1)
	switch last.Type() {
	case "as_pattern_target":
		if first := last.NamedChild(0); first != nil && first.Type() == "identifier" {
			return first
		}
	case "identifier":
		return last
	}
	return nil
}

// collectScopeSkips pre-scans a function body for global and nonlocal
// statements; those names bind outside this scope and are dropped from
// local declaration and resolution. The scan stops at nested
// definitions, whose statements belong to their own scopes.
func (a *analyzer) collectScopeSkips(def *sitter.Node, scope *Scope) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "global_statement", "nonlocal_statement":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				if child := n.NamedChild(i); child.Type() == "identifier" {
					scope.skip[a.text(child)] = true
				}
			}
			return
		case "function_definition", "class_definition", "lambda":
			if n.StartByte() != def.StartByte() || n.EndByte() != def.EndByte() {
				return
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(def)
}

// ---- pass 2: occurrences ----

func (a *analyzer) occurrences(n *sitter.Node, scope *Scope) {
	switch n.Type() {
	case "class_definition":
		if name := n.ChildByFieldName("name"); name != nil {
			a.record(name, scope)
		}
		if supers := n.ChildByFieldName("superclasses"); supers != nil {
			a.occurrences(supers, scope)
		}
		inner := a.scopes[key(n)]
		if body := n.ChildByFieldName("body"); body != nil && inner != nil {
			a.occurrences(body, inner)
		}
		return

	case "function_definition":
		if name := n.ChildByFieldName("name"); name != nil {
			a.record(name, scope)
		}
		inner := a.scopes[key(n)]
		if inner == nil {
			return
		}
		a.occurParams(n.ChildByFieldName("parameters"), inner, scope)
		// Return annotations evaluate in the enclosing scope.
		if ret := n.ChildByFieldName("return_type"); ret != nil {
			a.occurrences(ret, scope)
		}
		if body := n.ChildByFieldName("body"); body != nil {
			a.occurrences(body, inner)
		}
		return

	case "lambda":
		inner := a.scopes[key(n)]
		if inner == nil {
			return
		}
		a.occurParams(n.ChildByFieldName("parameters"), inner, scope)
		if body := n.ChildByFieldName("body"); body != nil {
			a.occurrences(body, inner)
		}
		return

	case "attribute":
		object := n.ChildByFieldName("object")
		attr := n.ChildByFieldName("attribute")
		if object != nil {
			a.occurrences(object, scope)
		}
		if object == nil || attr == nil {
			return
		}
		if object.Type() == "identifier" {
			recv := a.text(object)
			if recv == "self" || recv == "cls" {
				a.recordSelfAttribute(attr, scope)
				return
			}
			if a.imports[recv] {
				// Members of imported modules live elsewhere.
				return
			}
		}
		// Attributes of other objects cannot be bound to anything in
		// this file; leave them untouched, but report the dynamic
		// access so callers know coverage was incomplete.
		if name := a.text(attr); !IsReserved(name) && !isDunder(name) {
			a.fa.Unresolved++
		}
		return

	case "keyword_argument":
		// The key names the callee's parameter, which may live in
		// another module; only the value is an occurrence here.
		if value := n.ChildByFieldName("value"); value != nil {
			a.occurrences(value, scope)
		}
		return

	case "identifier":
		a.record(n, scope)
		return

	case "import_statement", "import_from_statement":
		return

	case "global_statement", "nonlocal_statement":
		// The listed names are occurrences of the outer binding and
		// must be rewritten along with it.
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if child := n.NamedChild(i); child.Type() == "identifier" {
				a.record(child, scope)
			}
		}
		return
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		a.occurrences(n.NamedChild(i), scope)
	}
}

// occurParams records parameter names in the function scope while
// default values and annotations, which evaluate before the function
// exists, resolve in the enclosing scope.
func (a *analyzer) occurParams(params *sitter.Node, inner, outer *Scope) {
	if params == nil {
		return
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		switch child.Type() {
		case "identifier":
			a.record(child, inner)
		case "default_parameter", "typed_default_parameter":
			if name := child.ChildByFieldName("name"); name != nil {
				a.record(name, inner)
			}
			if typ := child.ChildByFieldName("type"); typ != nil {
				a.occurrences(typ, outer)
			}
			if value := child.ChildByFieldName("value"); value != nil {
				a.occurrences(value, outer)
			}
		case "typed_parameter":
			if first := child.NamedChild(0); first != nil && first.Type() == "identifier" {
				a.record(first, inner)
			}
			if typ := child.ChildByFieldName("type"); typ != nil {
				a.occurrences(typ, outer)
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			if first := child.NamedChild(0); first != nil && first.Type() == "identifier" {
				a.record(first, inner)
			}
		}
	}
}

func (a *analyzer) record(n *sitter.Node, scope *Scope) {
	name := a.text(n)
	if d := scope.resolve(name); d != nil {
		d.Spans = append(d.Spans, Span{Start: int(n.StartByte()), End: int(n.EndByte())})
		return
	}
	if IsReserved(name) || isDunder(name) || a.imports[name] {
		return
	}
	a.fa.Unresolved++
}

// recordSelfAttribute binds self.<name> against the enclosing class's
// declarations, which covers attributes, methods, and class constants.
func (a *analyzer) recordSelfAttribute(attr *sitter.Node, scope *Scope) {
	name := a.text(attr)
	if class := scope.enclosingClass(); class != nil {
		if d, ok := class.decls[name]; ok {
			d.Spans = append(d.Spans, Span{Start: int(attr.StartByte()), End: int(attr.EndByte())})
			return
		}
	}
	if IsReserved(name) || isDunder(name) {
		return
	}
	a.fa.Unresolved++
}
