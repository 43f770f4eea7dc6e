package classifier

// Domain identifies a fallback recommendation bundle.
type Domain string

const (
	DomainUIUX        Domain = "ui_ux"
	DomainFrontend    Domain = "frontend"
	DomainDataScience Domain = "data_science"
	DomainDevOps      Domain = "devops"
	DomainBackend     Domain = "backend"
	DomainFullStack   Domain = "full_stack"
)

// Bundle is the fixed output of the heuristic for one domain.
type Bundle struct {
	Roles         []string
	MissingSkills []string
	Courses       []string
	Projects      []string
	Insights      string
}

type rule struct {
	domain   Domain
	keywords []string
	bundle   Bundle
}

// rules are evaluated in order; the first rule with a matching keyword wins.
var rules = []rule{
	{
		domain:   DomainUIUX,
		keywords: []string{"ui", "ux", "design", "figma", "user interface", "user experience"},
		bundle: Bundle{
			Roles:         []string{"UI/UX Designer", "Product Designer", "Interaction Designer"},
			MissingSkills: []string{"User Research", "Prototyping", "Design Systems", "Usability Testing"},
			Courses: []string{
				"Google UX Design Professional Certificate - Coursera",
				"Figma UI UX Design Essentials - Udemy",
				"Interaction Design Specialization - Coursera",
			},
			Projects: []string{
				"Redesign a popular mobile app and document the case study",
				"Build a reusable design system in Figma with accessibility guidelines",
			},
			Insights: "Your profile points towards user-centred design. Strengthen your research and prototyping " +
				"practice and publish detailed case studies: hiring managers look for the process behind the " +
				"final screens as much as the visuals themselves.",
		},
	},
	{
		domain:   DomainFrontend,
		keywords: []string{"frontend", "front-end", "front end", "react", "vue", "angular", "javascript", "typescript", "css", "html"},
		bundle: Bundle{
			Roles:         []string{"Frontend Developer", "React Developer", "UI Engineer"},
			MissingSkills: []string{"TypeScript", "State Management (Redux)", "Web Performance Optimization", "Frontend Testing (Jest)"},
			Courses: []string{
				"React - The Complete Guide - Udemy",
				"TypeScript Fundamentals - Pluralsight",
				"Front-End Web Development with React - Coursera",
			},
			Projects: []string{
				"Build a responsive dashboard with React and a public API",
				"Create a component library with Storybook and automated tests",
			},
			Insights: "You already have a base in web technologies. Going deeper into TypeScript, testing and " +
				"performance will set you apart, and a polished portfolio of deployed projects is the fastest " +
				"way to demonstrate frontend craftsmanship.",
		},
	},
	{
		domain:   DomainDataScience,
		keywords: []string{"data science", "machine learning", "data analysis", "data analyst", "python", "pandas", "statistics", "tensorflow", "pytorch"},
		bundle: Bundle{
			Roles:         []string{"Data Scientist", "Machine Learning Engineer", "Data Analyst"},
			MissingSkills: []string{"Statistics and Probability", "Machine Learning Algorithms", "SQL for Analytics", "Data Visualization"},
			Courses: []string{
				"Machine Learning Specialization - Coursera",
				"Python for Data Science and Machine Learning Bootcamp - Udemy",
				"Statistics with Python Specialization - Coursera",
			},
			Projects: []string{
				"Build a predictive model on a public Kaggle dataset and explain the results",
				"Create an interactive data visualization dashboard for a real-world dataset",
			},
			Insights: "Data roles reward a solid grounding in statistics as much as tooling. Pair your Python " +
				"skills with rigorous analysis, and communicate findings clearly: well-documented notebooks and " +
				"end-to-end projects carry a lot of weight with employers.",
		},
	},
	{
		domain:   DomainDevOps,
		keywords: []string{"devops", "docker", "kubernetes", "ci/cd", "aws", "azure", "cloud", "terraform", "ops", "infrastructure"},
		bundle: Bundle{
			Roles:         []string{"DevOps Engineer", "Cloud Engineer", "Site Reliability Engineer"},
			MissingSkills: []string{"Infrastructure as Code (Terraform)", "CI/CD Pipelines", "Monitoring and Observability", "Cloud Networking"},
			Courses: []string{
				"Certified Kubernetes Administrator (CKA) - Linux Foundation",
				"HashiCorp Terraform Associate Certification - Udemy",
				"AWS Certified Solutions Architect - A Cloud Guru",
			},
			Projects: []string{
				"Set up a complete CI/CD pipeline deploying a containerized app to Kubernetes",
				"Provision a multi-environment cloud infrastructure with Terraform and monitoring",
			},
			Insights: "Your experience with containers is a strong foundation for DevOps. Focus on automation, " +
				"infrastructure as code and observability, and back it up with certifications: reliability " +
				"engineering skills are in high demand across the industry.",
		},
	},
	{
		domain:   DomainBackend,
		keywords: []string{"backend", "back-end", "back end", "java", "spring", "api", "database", "sql", "node", "golang"},
		bundle: Bundle{
			Roles:         []string{"Backend Developer", "API Engineer", "Software Engineer"},
			MissingSkills: []string{"REST API Design", "Database Optimization", "Microservices Architecture", "Message Queues"},
			Courses: []string{
				"Spring Boot Masterclass - Udemy",
				"Designing Data-Intensive Applications Study Group - O'Reilly",
				"Microservices with Node JS - Udemy",
			},
			Projects: []string{
				"Build a RESTful API for a Library Management System",
				"Create a microservices-based order processing system with a message broker",
			},
			Insights: "You have a good grasp of server-side fundamentals. Deepen your knowledge of API design, " +
				"data modelling and distributed systems, and showcase production-like projects with tests, " +
				"documentation and deployment to stand out as a backend engineer.",
		},
	},
}

// fullStack is returned when no rule matches.
var fullStack = rule{
	domain: DomainFullStack,
	bundle: Bundle{
		Roles:         []string{"Full Stack Developer", "Software Engineer", "Web Developer"},
		MissingSkills: []string{"Modern JavaScript Framework", "REST API Design", "Docker", "Cloud Platforms (AWS/Azure)"},
		Courses: []string{
			"The Complete Web Developer Bootcamp - Udemy",
			"Full-Stack Web Development with React - Coursera",
			"AWS Certified Developer Course - A Cloud Guru",
		},
		Projects: []string{
			"Build a full stack task management app with authentication",
			"Create an e-commerce platform with a REST API and containerized deployment",
		},
		Insights: "Based on your profile, a broad full stack path keeps the most doors open. Build a solid " +
			"foundation in one frontend framework and one backend stack, learn containerization and cloud " +
			"deployment, and ship real-world projects to boost your portfolio and job prospects.",
	},
}
