package content

var (
	Owner = "Abhinava Ghosh"

	HeroTitle = `Passionate Software Developer & Data Analyst`

	HeroQuote = `I'm a creative explorer guided by clean design, deep research, and innovative visuals.`

	AboutMe = `I am a B.Tech Computer Science student from JIS University (2022–2026) with a strong passion for visual storytelling,
	clean and functional design, and user-centered experiences. I've built responsive web projects, sharpened my skills in
	modern design systems, and constantly strive to merge technology with creativity.`

	SoftwareDevelopment = `Building efficient, scalable, and reliable software solutions with clean code and
	modern development practices.`

	WebDevelopment = `Designing and developing responsive, user-focused web applications with clean code and
	modern frameworks.`

	DataAnalysis = `Extracting insights from complex data sets using analytical tools, visualization techniques,
	and statistical methods.`

	DatabaseManagement = `Designing, organizing, and maintaining structured databases to ensure data integrity,
	accessibility, and performance.`

	TestimonialQuote = `Very happy to work with Abhinava. He understands design language perfectly and delivers top-notch work.`
)
