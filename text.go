package main

var (
	OwnerName = `Dhanush Srinivas`

	Tagline = `Master’s student @UTA | Ex-ML Intern @NVIDIA | Passionate about Computer Vision & AI`

	ContactEmail = `dxs2331@mavs.uta.edu`

	LinkedInURL = `https://www.linkedin.com/in/dhanush-srinivas-2391b9325`

	GitHubHandle = `Dev-Dhanush-hub`
)
