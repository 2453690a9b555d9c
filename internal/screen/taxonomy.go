// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

// Category is a named group of keyword phrases sharing one point value.
// A category contributes its weight to a paper's score at most once,
// regardless of how many of its keywords match (R2.3).
type Category struct {
	// Name identifies the category (e.g. "Core Drift Concepts").
	Name string

	// Weight is the category's fixed point value.
	Weight float64

	// Keywords lists the phrases whose presence marks the category as
	// matched. Matching is case-insensitive and phrase-boundary based.
	Keywords []string
}

// Weights are restricted to exact binary fractions so float64 sums and
// threshold comparisons are exact (R2.2).
const (
	weightCore       = 3.0
	weightMajor      = 2.0
	weightStrong     = 1.5
	weightModerate   = 1.0
	weightPeripheral = 0.5
)

// DefaultTaxonomy returns the eleven keyword categories of the review
// protocol (R2.1). Compound phrases are preferred over single words where a
// bare term would match out-of-scope literature; in particular "General
// Cloud" deliberately omits the bare word "cloud" and "Core Drift Concepts"
// omits the bare word "drift".
//
// The returned slice is a fresh copy; callers may not observe mutations
// through it.
func DefaultTaxonomy() []Category {
	cats := []Category{
		{
			Name:   "Core Drift Concepts",
			Weight: weightCore,
			Keywords: []string{
				"drift detection",
				"configuration drift",
				"infrastructure drift",
				"drift management",
				"drift analysis",
				"detecting drift",
				"environment drift",
				"cloud drift",
			},
		},
		{
			Name:   "IaC Tools & Platforms",
			Weight: weightMajor,
			Keywords: []string{
				"terraform",
				"opentofu",
				"terragrunt",
				"ansible",
				"cloudformation",
				"pulumi",
				"chef",
				"puppet",
				"saltstack",
				"aws cdk",
				"bicep",
				"crossplane",
			},
		},
		{
			Name:   "Infrastructure as Code (general)",
			Weight: weightMajor,
			Keywords: []string{
				"infrastructure as code",
				"iac",
				"infrastructure automation",
				"declarative infrastructure",
				"programmable infrastructure",
				"infrastructure provisioning",
				"configuration management",
			},
		},
		{
			Name:   "Cloud Infrastructure",
			Weight: weightMajor,
			Keywords: []string{
				"aws",
				"amazon web services",
				"azure",
				"google cloud",
				"gcp",
				"multi-cloud",
				"hybrid cloud",
				"public cloud",
				"cloud resource",
				"cloud resources",
			},
		},
		{
			Name:   "State Management",
			Weight: weightMajor,
			Keywords: []string{
				"state management",
				"state reconciliation",
				"desired state",
				"actual state",
				"state file",
				"tfstate",
				"state consistency",
				"state synchronization",
			},
		},
		{
			Name:   "Automated Remediation",
			Weight: weightMajor,
			Keywords: []string{
				"automated remediation",
				"auto-remediation",
				"drift remediation",
				"drift correction",
				"self-healing",
				"auto-healing",
				"automatic rollback",
			},
		},
		{
			Name:   "GitOps & Declarative",
			Weight: weightStrong,
			Keywords: []string{
				"gitops",
				"argocd",
				"argo cd",
				"fluxcd",
				"flux cd",
				"declarative deployment",
				"continuous reconciliation",
				"git-based operations",
			},
		},
		{
			Name:   "Policy & Compliance",
			Weight: weightModerate,
			Keywords: []string{
				"policy as code",
				"open policy agent",
				"opa",
				"compliance",
				"governance",
				"policy enforcement",
				"audit trail",
			},
		},
		{
			Name:   "Security",
			Weight: weightModerate,
			Keywords: []string{
				"security",
				"misconfiguration",
				"vulnerability",
				"attack surface",
				"security posture",
				"cspm",
			},
		},
		{
			Name:   "Container Orchestration",
			Weight: weightPeripheral,
			Keywords: []string{
				"kubernetes",
				"k8s",
				"docker",
				"helm",
				"openshift",
				"container orchestration",
				"containerized",
			},
		},
		{
			Name:   "General Cloud",
			Weight: weightPeripheral,
			Keywords: []string{
				"cloud computing",
				"cloud services",
				"cloud platform",
				"cloud native",
				"cloud environment",
				"cloud-based",
			},
		},
	}

	out := make([]Category, len(cats))
	for i, c := range cats {
		out[i] = Category{
			Name:     c.Name,
			Weight:   c.Weight,
			Keywords: append([]string(nil), c.Keywords...),
		}
	}
	return out
}

// MaxScore returns the sum of all category weights: the highest score a
// paper can reach. With the default taxonomy this is 19.5.
func MaxScore(cats []Category) float64 {
	var sum float64
	for _, c := range cats {
		sum += c.Weight
	}
	return sum
}
