package configuration

type AuthRule struct {
	Path        string
	Method      string // empty means all methods
	RequireAuth bool   // true means require auth, false means exclude from auth
}

var AuthRulePrefixMatchPath = []AuthRule{
	{Path: "/api/v1/auth/login", Method: "POST", RequireAuth: false},
	{Path: "/api/v1/auth", Method: "*", RequireAuth: true},
	{Path: "/api/v1", Method: "*", RequireAuth: true},
}

var AuthRuleExactMatchPath = map[string][]AuthRule{
	"/api/v1/health": {
		{Path: "/api/v1/health", Method: "GET", RequireAuth: false},
	},
}
